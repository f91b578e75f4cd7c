package cli

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/diillson/geminiapp/config"
)

// Options representa as flags suportadas pelo binário
type Options struct {
	// Geral
	Version bool // --version | -v

	ConfigFile string // --config (YAML)

	// Sessão Vertex AI; vazias mantêm o valor vindo do ambiente
	Project     string // --project
	Region      string // --region
	Credentials string // --credentials
	Model       string // --model

	// Modo one-shot
	Task   string     // --task (1-5)
	Inputs inputFlags // --input k=v, repetível
}

// inputFlags acumula pares chave=valor de --input
type inputFlags map[string]string

func (f inputFlags) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, ",")
}

func (f inputFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("input inválido %q: use chave=valor", value)
	}
	f[key] = val
	return nil
}

// NewFlagSet cria um FlagSet isolado e as Options para parsing
func NewFlagSet() (*flag.FlagSet, *Options) {
	fs := flag.NewFlagSet("geminiapp", flag.ContinueOnError)
	opts := &Options{Inputs: inputFlags{}}

	fs.BoolVar(&opts.Version, "version", false, "Mostra versão e sai")
	fs.BoolVar(&opts.Version, "v", false, "Mostra versão e sai (alias)")

	fs.StringVar(&opts.ConfigFile, "config", "", "Arquivo YAML de configuração (sobrescreve "+config.KeyConfigFile+")")

	fs.StringVar(&opts.Project, "project", "", "Google Cloud project ID (sobrescreve "+config.KeyProjectID+")")
	fs.StringVar(&opts.Region, "region", "", "Região do Vertex AI (sobrescreve "+config.KeyLocation+")")
	fs.StringVar(&opts.Credentials, "credentials", "", "Chave JSON da service account (sobrescreve "+config.KeyCredentialsFile+")")
	fs.StringVar(&opts.Model, "model", "", "Modelo Gemini (sobrescreve "+config.KeyModel+")")

	fs.StringVar(&opts.Task, "task", "", "Executa uma tarefa (1-5) uma única vez e sai")
	fs.Var(opts.Inputs, "input", "Entrada da tarefa one-shot no formato chave=valor (repetível)")

	return fs, opts
}

// Parse analisa os args, valida e retorna Options
func Parse(args []string) (*Options, error) {
	fs, opts := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("argumento inesperado: %s", fs.Arg(0))
	}
	if len(opts.Inputs) > 0 && opts.Task == "" {
		return nil, fmt.Errorf("--input requer --task")
	}
	return opts, nil
}

// ApplyTo grava as flags informadas no ConfigManager, acima do ambiente.
func (o *Options) ApplyTo(cm *config.ConfigManager) {
	cm.Set(config.KeyProjectID, o.Project)
	cm.Set(config.KeyLocation, o.Region)
	cm.Set(config.KeyCredentialsFile, o.Credentials)
	cm.Set(config.KeyModel, o.Model)
}

// OneShot indica se o binário deve rodar uma única tarefa e sair.
func (o *Options) OneShot() bool {
	return o.Task != ""
}
