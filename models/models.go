/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package models

// Papéis aceitos em uma mensagem do transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message representa uma mensagem trocada com o modelo de linguagem.
type Message struct {
	Role    string `json:"role"`    // O papel da mensagem, como "user" ou "assistant".
	Content string `json:"content"` // O conteúdo da mensagem.
}

// IsValid valida se a mensagem tem um papel e conteúdo válidos.
func (m *Message) IsValid() bool {
	validRoles := map[string]bool{
		RoleUser:      true,
		RoleAssistant: true,
	}
	return validRoles[m.Role] && m.Content != ""
}

// UsageInfo representa informações de uso de tokens retornadas pela API
type UsageInfo struct {
	PromptTokens     int // Tokens usados no prompt
	CompletionTokens int // Tokens usados na resposta
	TotalTokens      int // Total de tokens usados
}
