/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/diillson/geminiapp/cli"
	"github.com/diillson/geminiapp/config"
	"github.com/diillson/geminiapp/i18n"
	"github.com/diillson/geminiapp/llm/client"
	"github.com/diillson/geminiapp/llm/vertexai"
	"github.com/diillson/geminiapp/metrics"
	"github.com/diillson/geminiapp/utils"
	"github.com/diillson/geminiapp/version"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.Version {
		fmt.Print(version.FormatVersionInfo(version.GetCurrentVersion()))
		return
	}

	// Carregar variáveis de ambiente (LOG_* e GEMINIAPP_LANG precisam estar no ambiente antes do logger)
	_ = godotenv.Load()

	logger, err := utils.InitializeLogger()
	if err != nil {
		panic(fmt.Sprintf("Não foi possível inicializar o logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	i18n.Init()

	cm := config.New(logger)
	cm.SetConfigFile(opts.ConfigFile)
	if err := cm.Load(); err != nil {
		fmt.Fprintln(os.Stderr, i18n.T("init.error", err.Error()))
		logger.Error("Erro ao carregar configuração", zap.Error(err))
		os.Exit(1)
	}
	opts.ApplyTo(cm)

	os.Exit(run(context.Background(), opts, cm, logger))
}

// run inicializa a sessão e executa o menu ou a tarefa one-shot, devolvendo o exit code.
func run(ctx context.Context, opts *cli.Options, cm *config.ConfigManager, logger *zap.Logger) int {
	settings := settingsFromConfig(cm)

	gemini, err := vertexai.Initialize(ctx, settings, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T("init.error", err.Error()))
		fmt.Fprintln(os.Stderr, i18n.T("init.troubleshooting"))
		logger.Error("Erro ao inicializar o Vertex AI", zap.Error(err))
		return 1
	}

	llmMetrics := metrics.NewLLMMetrics(metrics.Registry)
	sessionMetrics := metrics.NewSessionMetrics(metrics.Registry)
	var llm client.LLMClient = client.NewInstrumentedClient(gemini, llmMetrics, "VERTEXAI")

	if port := cm.GetInt(config.KeyMetricsPort, 0); port > 0 {
		srv := metrics.NewServer(port, metrics.Registry, logger)
		if err := srv.Start(); err != nil {
			logger.Warn("Servidor de métricas não iniciado", zap.Error(err))
		} else {
			defer srv.Stop()
		}
	}

	appOpts := []cli.Option{
		cli.WithRenderer(cli.NewRenderer(os.Stdout, cm.GetBool(config.KeyRenderMarkdown, true), logger)),
		cli.WithHistoryStrategy(cli.NewHistoryStrategy(cm.GetInt(config.KeyConversationWindow, 0))),
		cli.WithConversationMode(cm.GetConversationMode()),
		cli.WithMaxTokens(settings.MaxTokens),
		cli.WithRecorder(sessionMetrics),
	}
	if cm.GetBool(config.KeyAnimation, true) && cli.IsTerminal(os.Stdout) {
		appOpts = append(appOpts, cli.WithAnimation(cli.NewAnimationManager(os.Stdout)))
	}
	app := cli.NewApp(llm, logger, appOpts...)

	if opts.OneShot() {
		if err := app.RunOnce(ctx, opts.Task, opts.Inputs); err != nil {
			fmt.Fprintln(os.Stderr, i18n.T("response.error", err.Error()))
			logger.Error("Erro no modo one-shot", zap.String("task", opts.Task), zap.Error(err))
			return 1
		}
		return 0
	}

	fmt.Println(i18n.T("init.ok", settings.ProjectID, settings.Region, credentialLabel(settings.CredentialsFile)))
	fmt.Println(i18n.T("init.model", llm.GetModelName()))

	if err := app.Run(ctx); err != nil {
		logger.Error("Erro no loop principal", zap.Error(err))
		return 1
	}
	return 0
}

// settingsFromConfig monta os parâmetros da sessão a partir do ConfigManager já carregado.
func settingsFromConfig(cm *config.ConfigManager) vertexai.Settings {
	return vertexai.Settings{
		ProjectID:         cm.GetString(config.KeyProjectID),
		Region:            cm.GetString(config.KeyLocation),
		CredentialsFile:   cm.GetString(config.KeyCredentialsFile),
		Model:             cm.GetString(config.KeyModel),
		APIEndpoint:       cm.GetString(config.KeyAPIEndpoint),
		MaxTokens:         cm.GetInt(config.KeyMaxTokens, config.VertexDefaultMaxTokens),
		MaxAttempts:       cm.GetInt(config.KeyMaxRetries, config.VertexDefaultMaxAttempts),
		Backoff:           cm.GetDuration(config.KeyInitialBackoff, config.VertexDefaultBackoff),
		Timeout:           cm.GetDuration(config.KeyTimeout, config.VertexDefaultTimeout),
		VerifyCredentials: cm.GetBool(config.KeyVerifyCredentials, true),
		RequestsPerMinute: cm.GetInt(config.KeyRequestsPerMinute, 0),
	}
}

func credentialLabel(keyFile string) string {
	if keyFile == "" {
		return "Application Default Credentials"
	}
	return keyFile
}
