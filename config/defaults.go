/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package config

import "time"

// Valores padrão para configuração da aplicação
const (
	// Valores padrão para Vertex AI (Gemini)
	DefaultVertexModel       = "gemini-2.5-pro"
	DefaultVertexLocation    = "us-central1"
	VertexAPIHostSuffix      = "aiplatform.googleapis.com"
	VertexDefaultMaxAttempts = 1 // sem retry, uma chamada por turno
	VertexDefaultBackoff     = time.Second
	VertexMaxBackoff         = 30 * time.Second // teto da espera entre tentativas, inclusive Retry-After
	VertexDefaultMaxTokens   = 8192
	VertexDefaultTimeout     = 0 // sem timeout
	VertexOAuthScope         = "https://www.googleapis.com/auth/cloud-platform"

	// Modos de envio da conversa
	ConversationModeChat = "chat" // histórico estruturado + mensagem nova
	ConversationModeFlat = "flat" // prompt único com o transcript renderizado

	// Arquivo de log e tamanho padrão (MB)
	DefaultLogFile    = "geminiapp.log"
	DefaultMaxLogSize = 50
)

// Chaves de configuração reconhecidas.
const (
	KeyProjectID          = "VERTEX_PROJECT_ID"
	KeyLocation           = "VERTEX_LOCATION"
	KeyCredentialsFile    = "GOOGLE_APPLICATION_CREDENTIALS"
	KeyModel              = "VERTEX_MODEL"
	KeyAPIEndpoint        = "VERTEX_API_ENDPOINT"
	KeyMaxTokens          = "VERTEX_MAX_TOKENS"
	KeyMaxRetries         = "VERTEX_MAX_RETRIES"
	KeyInitialBackoff     = "VERTEX_INITIAL_BACKOFF"
	KeyTimeout            = "VERTEX_TIMEOUT"
	KeyVerifyCredentials  = "VERTEX_VERIFY_CREDENTIALS"
	KeyConversationWindow = "CONVERSATION_WINDOW"
	KeyConversationMode   = "CONVERSATION_MODE"
	KeyRenderMarkdown     = "RENDER_MARKDOWN"
	KeyMetricsPort        = "METRICS_PORT"
	KeyAnimation          = "SHOW_ANIMATION"
	KeyRequestsPerMinute  = "VERTEX_REQUESTS_PER_MINUTE"
	KeyConfigFile         = "GEMINIAPP_CONFIG"
)
