/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package client

import (
	"context"
	"errors"

	"github.com/diillson/geminiapp/models"
)

// ErrBlocked marca respostas recusadas pelos filtros de segurança do modelo.
var ErrBlocked = errors.New("response blocked by safety filters")

// LLMClient é o handle do modelo usado pelo menu e pela conversa.
type LLMClient interface {
	GetModelName() string

	// SendPrompt faz uma ida e volta ao modelo. history são os turnos anteriores
	// (nil em tarefas avulsas) e maxTokens <= 0 mantém o limite do cliente.
	SendPrompt(ctx context.Context, prompt string, history []models.Message, maxTokens int) (string, error)
}
