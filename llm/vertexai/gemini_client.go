/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package vertexai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diillson/geminiapp/config"
	"github.com/diillson/geminiapp/llm/client"
	"github.com/diillson/geminiapp/models"
	"github.com/diillson/geminiapp/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text    string `json:"text"`
				Thought bool   `json:"thought,omitempty"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Finish reasons em que o Vertex AI descarta o texto por política de conteúdo.
var blockingFinishReasons = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

var _ client.LLMClient = (*GeminiClient)(nil)

// GeminiClient implementa o cliente para o endpoint generateContent do Vertex AI.
// É imutável depois de criado e pode ser compartilhado por todo o processo.
type GeminiClient struct {
	auth        Authenticator
	project     string
	region      string
	model       string
	maxTokens   int
	logger      *zap.Logger
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
	baseURL     string
	limiter     *rate.Limiter
}

// NewGeminiClient cria uma nova instância de GeminiClient.
func NewGeminiClient(auth Authenticator, settings Settings, logger *zap.Logger) *GeminiClient {
	model := settings.Model
	if model == "" {
		model = config.DefaultVertexModel
	}
	baseURL := settings.APIEndpoint
	if baseURL == "" {
		baseURL = DefaultBaseURL(settings.Region)
	}

	logger.Info("Inicializando cliente Vertex AI (Gemini)",
		zap.String("model", model),
		zap.String("project", settings.ProjectID),
		zap.String("region", settings.Region),
		zap.Int("max_attempts", settings.MaxAttempts),
		zap.Duration("backoff", settings.Backoff),
		zap.Duration("timeout", settings.Timeout),
		zap.Int("requests_per_minute", settings.RequestsPerMinute),
		zap.String("base_url", baseURL))

	var limiter *rate.Limiter
	if settings.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(settings.RequestsPerMinute)), 1)
	}

	return &GeminiClient{
		auth:        auth,
		project:     settings.ProjectID,
		region:      settings.Region,
		model:       model,
		maxTokens:   settings.MaxTokens,
		logger:      logger,
		client:      utils.NewHTTPClient(logger, settings.Timeout),
		maxAttempts: settings.MaxAttempts,
		backoff:     settings.Backoff,
		baseURL:     strings.TrimRight(baseURL, "/"),
		limiter:     limiter,
	}
}

// DefaultBaseURL retorna o host regional do Vertex AI; "global" usa o host sem prefixo.
func DefaultBaseURL(region string) string {
	if region == "" || region == "global" {
		return "https://" + config.VertexAPIHostSuffix
	}
	return fmt.Sprintf("https://%s-%s", region, config.VertexAPIHostSuffix)
}

// GetModelName retorna o nome do modelo Gemini
func (c *GeminiClient) GetModelName() string {
	return c.model
}

// usage converte usageMetadata; o total é derivado quando o servidor o omite.
func (r generateContentResponse) usage() models.UsageInfo {
	u := models.UsageInfo{
		PromptTokens:     r.UsageMetadata.PromptTokenCount,
		CompletionTokens: r.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      r.UsageMetadata.TotalTokenCount,
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

// endpoint monta a URL generateContent do modelo publicado pelo Google.
func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		c.baseURL, c.project, c.region, c.model)
}

// SendPrompt envia o histórico mais o prompt novo para o Gemini e retorna o texto da resposta.
func (c *GeminiClient) SendPrompt(ctx context.Context, prompt string, history []models.Message, maxTokens int) (string, error) {
	effectiveMaxTokens := maxTokens
	if effectiveMaxTokens <= 0 {
		effectiveMaxTokens = c.maxTokens
	}

	c.logger.Info("Iniciando requisição para Vertex AI",
		zap.String("model", c.model),
		zap.Int("history_length", len(history)),
		zap.Int("prompt_length", len(prompt)))

	reqBody := buildRequest(history, prompt, effectiveMaxTokens)
	jsonValue, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("erro ao preparar a requisição: %w", err)
	}

	c.logger.Debug("Payload preparado", zap.Int("payload_size", len(jsonValue)), zap.String("model", c.model))

	policy := utils.RetryPolicy{MaxAttempts: c.maxAttempts, InitialBackoff: c.backoff, MaxBackoff: config.VertexMaxBackoff}
	response, err := utils.Retry(ctx, c.logger, policy, func(ctx context.Context) (string, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit wait: %w", err)
			}
		}
		return c.executeRequest(ctx, jsonValue)
	})
	if err != nil {
		c.logger.Error("Erro ao obter resposta do Vertex AI", zap.Error(err))
		return "", err
	}

	c.logger.Info("Resposta recebida do Vertex AI com sucesso", zap.Int("response_length", len(response)))
	return response, nil
}

// buildRequest converte o histórico para o formato de contents do Gemini.
// Mensagens "assistant" viram role "model"; "system" vai para systemInstruction.
func buildRequest(history []models.Message, prompt string, maxTokens int) generateContentRequest {
	req := generateContentRequest{}
	var systemParts []part

	for _, msg := range history {
		switch strings.ToLower(msg.Role) {
		case models.RoleAssistant, "model":
			req.Contents = append(req.Contents, content{Role: "model", Parts: []part{{Text: msg.Content}}})
		case models.RoleSystem:
			systemParts = append(systemParts, part{Text: msg.Content})
		default:
			req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: msg.Content}}})
		}
	}
	req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: prompt}}})

	if len(systemParts) > 0 {
		req.SystemInstruction = &content{Parts: systemParts}
	}
	if maxTokens > 0 {
		req.GenerationConfig = &generationConfig{MaxOutputTokens: maxTokens}
	}
	return req
}

// executeRequest executa a requisição HTTP para o Vertex AI
func (c *GeminiClient) executeRequest(ctx context.Context, jsonValue []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(jsonValue))
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.auth.Apply(ctx, req); err != nil {
		return "", fmt.Errorf("erro ao autenticar requisição: %w", err)
	}

	startTime := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		c.logger.Error("Erro na requisição HTTP para Vertex AI",
			zap.Error(err),
			zap.Duration("duration", duration),
			zap.String("model", c.model))
		return "", fmt.Errorf("erro na requisição para Vertex AI: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", utils.NewAPIError(resp, extractErrorMessage(bodyBytes))
	}

	return c.parseResponse(bodyBytes)
}

// extractErrorMessage devolve error.message do corpo, ou o corpo cru quando não é JSON.
func extractErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		if payload.Error.Status != "" {
			return payload.Error.Status + ": " + payload.Error.Message
		}
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// parseResponse extrai o texto da resposta do Gemini
func (c *GeminiClient) parseResponse(bodyBytes []byte) (string, error) {
	var result generateContentResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		c.logger.Error("Erro ao decodificar resposta JSON do Vertex AI",
			zap.Error(err),
			zap.String("model", c.model))
		return "", fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	if result.Error.Code != 0 {
		return "", fmt.Errorf("erro da API: %s (código: %d)", result.Error.Message, result.Error.Code)
	}

	if len(result.Candidates) == 0 {
		if result.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt bloqueado pelo Vertex AI: %s", client.ErrBlocked, result.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("nenhuma resposta recebida do Vertex AI")
	}

	usage := result.usage()
	c.logger.Info("Estatísticas de uso de tokens do Vertex AI",
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("response_tokens", usage.CompletionTokens),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.String("finish_reason", result.Candidates[0].FinishReason),
		zap.String("model", c.model))

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Thought {
			continue
		}
		responseText.WriteString(p.Text)
	}

	if responseText.Len() == 0 {
		reason := result.Candidates[0].FinishReason
		if blockingFinishReasons[reason] {
			return "", fmt.Errorf("%w: resposta bloqueada pelo Vertex AI: %s", client.ErrBlocked, reason)
		}
		return "", fmt.Errorf("resposta vazia do Vertex AI (finish reason: %s)", reason)
	}

	return responseText.String(), nil
}
