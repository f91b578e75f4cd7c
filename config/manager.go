/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ConfigManager centraliza o acesso a todas as configurações.
// A ordem de prioridade é: Flags (aplicado no main) > Variáveis de Ambiente > Arquivo .env > Arquivo YAML > Padrões.
type ConfigManager struct {
	mu         sync.RWMutex
	values     map[string]interface{}
	logger     *zap.Logger
	envFiles   []string
	configFile string
}

// New cria uma nova instância do ConfigManager.
// envFiles são os arquivos lidos em Load; vazio significa ".env" no diretório atual.
func New(logger *zap.Logger, envFiles ...string) *ConfigManager {
	return &ConfigManager{
		values:   make(map[string]interface{}),
		logger:   logger,
		envFiles: envFiles,
	}
}

// SetConfigFile define o arquivo YAML lido em Load. Vazio usa GEMINIAPP_CONFIG, se houver.
func (cm *ConfigManager) SetConfigFile(path string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.configFile = path
}

// Load carrega as configurações de todas as fontes.
// Só o arquivo YAML pode falhar: se foi pedido explicitamente, ele precisa existir e ser válido.
func (cm *ConfigManager) Load() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.loadDefaults()
	if err := cm.loadConfigFile(); err != nil {
		return err
	}
	cm.loadEnvFile()
	cm.loadEnvVars()
	return nil
}

// loadDefaults carrega os valores padrão.
func (cm *ConfigManager) loadDefaults() {
	cm.values[KeyLocation] = DefaultVertexLocation
	cm.values[KeyModel] = DefaultVertexModel
	cm.values[KeyMaxTokens] = strconv.Itoa(VertexDefaultMaxTokens)
	cm.values[KeyMaxRetries] = strconv.Itoa(VertexDefaultMaxAttempts)
	cm.values[KeyInitialBackoff] = VertexDefaultBackoff.String()
	cm.values[KeyVerifyCredentials] = "true"
	cm.values[KeyConversationMode] = ConversationModeChat
	cm.values[KeyRenderMarkdown] = "true"
	cm.values[KeyAnimation] = "true"
}

// loadConfigFile lê um mapa plano chave: valor. As chaves são as mesmas das variáveis de ambiente,
// aceitas também em minúsculas.
func (cm *ConfigManager) loadConfigFile() error {
	path := cm.configFile
	if path == "" {
		path = os.Getenv(KeyConfigFile)
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file map[string]interface{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	for key, raw := range file {
		switch v := raw.(type) {
		case map[string]interface{}, []interface{}:
			return fmt.Errorf("config file key %q must be a scalar", key)
		case nil:
			continue
		case string:
			cm.values[strings.ToUpper(key)] = v
		default:
			cm.values[strings.ToUpper(key)] = fmt.Sprint(v)
		}
	}
	cm.logger.Debug("Arquivo de configuração carregado", zap.String("path", path), zap.Int("keys", len(file)))
	return nil
}

// loadEnvFile carrega configurações do arquivo .env.
func (cm *ConfigManager) loadEnvFile() {
	envMap, err := godotenv.Read(cm.envFiles...) // Não sobrepõe vars de ambiente existentes
	if err != nil {
		cm.logger.Debug("Arquivo .env não encontrado ou erro na leitura", zap.Error(err))
		return
	}
	for key, value := range envMap {
		cm.values[key] = value
	}
}

// loadEnvVars carrega configurações das variáveis de ambiente do sistema (maior prioridade).
func (cm *ConfigManager) loadEnvVars() {
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			cm.values[pair[0]] = pair[1]
		}
	}
}

// Set injeta um valor, tipicamente de uma flag (maior prioridade).
// Strings vazias são ignoradas para não apagar o que veio do ambiente.
func (cm *ConfigManager) Set(key string, value interface{}) {
	if s, ok := value.(string); ok && s == "" {
		return
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.values[key] = value
}

// GetString retorna um valor de configuração como string.
func (cm *ConfigManager) GetString(key string) string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if val, ok := cm.values[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return ""
}

// GetInt retorna um valor de configuração como int.
func (cm *ConfigManager) GetInt(key string, defaultValue int) int {
	return getParsed(cm, key, defaultValue, strconv.Atoi)
}

// GetBool retorna um valor de configuração como bool.
func (cm *ConfigManager) GetBool(key string, defaultValue bool) bool {
	return getParsed(cm, key, defaultValue, strconv.ParseBool)
}

// GetDuration retorna um valor de configuração como time.Duration.
// Um inteiro puro é lido como segundos ("30" = 30s).
func (cm *ConfigManager) GetDuration(key string, defaultValue time.Duration) time.Duration {
	return getParsed(cm, key, defaultValue, parseDuration)
}

// GetConversationMode retorna chat ou flat, sem diferenciar maiúsculas; outros valores caem em chat.
func (cm *ConfigManager) GetConversationMode() string {
	return getParsed(cm, KeyConversationMode, ConversationModeChat, parseConversationMode)
}

func parseConversationMode(s string) (string, error) {
	switch mode := strings.ToLower(s); mode {
	case ConversationModeChat, ConversationModeFlat:
		return mode, nil
	default:
		return "", fmt.Errorf("modo de conversa desconhecido: %q", s)
	}
}

func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// getParsed aplica parse ao valor de key; ausente ou inválido devolve defaultValue.
func getParsed[T any](cm *ConfigManager, key string, defaultValue T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(cm.GetString(key))
	if raw == "" {
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil {
		cm.logger.Warn("Valor de configuração inválido, usando default",
			zap.String("key", key), zap.String("value", raw), zap.Any("default", defaultValue))
		return defaultValue
	}
	return v
}
