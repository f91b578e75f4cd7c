/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package vertexai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
)

var (
	ErrMissingProject = errors.New("project ID is required")
	ErrInvalidRegion  = errors.New("region is not a valid Vertex AI location")
)

var regionPattern = regexp.MustCompile(`^[a-z]+-[a-z]+[0-9]+$`)

// Settings descreve tudo o que é necessário para abrir uma sessão com o Vertex AI.
type Settings struct {
	ProjectID         string
	Region            string
	CredentialsFile   string // vazio usa Application Default Credentials
	Model             string
	APIEndpoint       string // sobrescreve o host regional (testes, Private Service Connect)
	MaxTokens         int
	MaxAttempts       int
	Backoff           time.Duration
	Timeout           time.Duration
	VerifyCredentials bool // busca um token já na inicialização
	RequestsPerMinute int  // limite local de chamadas; 0 desliga
}

// Validate confere projeto e região antes de qualquer acesso à rede.
func (s Settings) Validate() error {
	if s.ProjectID == "" {
		return ErrMissingProject
	}
	if s.Region != "global" && !regionPattern.MatchString(s.Region) {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, s.Region)
	}
	return nil
}

// Initialize carrega as credenciais e devolve o handle do modelo.
// Qualquer erro aqui é fatal para quem chama.
func Initialize(ctx context.Context, settings Settings, logger *zap.Logger) (*GeminiClient, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	cred, err := LoadCredentials(ctx, settings.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("error loading credentials: %w", err)
	}

	if cred.ProjectID() != "" && cred.ProjectID() != settings.ProjectID {
		logger.Warn("Projeto da chave difere do projeto configurado",
			zap.String("key_project", cred.ProjectID()),
			zap.String("project", settings.ProjectID))
	}

	if settings.VerifyCredentials {
		if _, err := cred.Token(); err != nil {
			return nil, fmt.Errorf("error verifying credentials: %w", err)
		}
	}

	logger.Info("Vertex AI inicializado",
		zap.String("project", settings.ProjectID),
		zap.String("region", settings.Region),
		zap.String("credential_source", cred.Source()))

	return NewGeminiClient(cred, settings, logger), nil
}
