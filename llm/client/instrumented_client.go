/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/diillson/geminiapp/models"
	"github.com/diillson/geminiapp/utils"
)

// CallStats descreve uma chamada ao modelo, do jeito que as métricas a enxergam.
type CallStats struct {
	Provider        string
	Model           string
	Status          string // "success" ou "error"
	ErrorType       string // vazio em caso de sucesso
	Duration        time.Duration
	HistoryMessages int
	PromptChars     int
	ResponseChars   int
}

// MetricsRecorder recebe uma CallStats por chamada. metrics.LLMMetrics implementa.
type MetricsRecorder interface {
	ObserveCall(stats CallStats)
}

// InstrumentedClient mede cada SendPrompt do cliente interno.
type InstrumentedClient struct {
	inner    LLMClient
	recorder MetricsRecorder
	provider string
	now      func() time.Time
}

func NewInstrumentedClient(inner LLMClient, recorder MetricsRecorder, provider string) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, recorder: recorder, provider: provider, now: time.Now}
}

func (c *InstrumentedClient) GetModelName() string {
	return c.inner.GetModelName()
}

func (c *InstrumentedClient) SendPrompt(ctx context.Context, prompt string, history []models.Message, maxTokens int) (string, error) {
	start := c.now()
	response, err := c.inner.SendPrompt(ctx, prompt, history, maxTokens)

	stats := CallStats{
		Provider:        c.provider,
		Model:           c.inner.GetModelName(),
		Status:          "success",
		Duration:        c.now().Sub(start),
		HistoryMessages: len(history),
		PromptChars:     len(prompt),
		ResponseChars:   len(response),
	}
	if err != nil {
		stats.Status = "error"
		stats.ErrorType = classifyError(err)
	}
	c.recorder.ObserveCall(stats)

	return response, err
}

// classifyError reduz um erro a um rótulo de baixa cardinalidade.
// Ordem: bloqueio de segurança, status HTTP, contexto e por fim o texto (status gRPC do Vertex).
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrBlocked) {
		return "blocked"
	}

	var apiErr *utils.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.StatusCode; {
		case code == http.StatusTooManyRequests:
			return "rate_limit"
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return "auth_error"
		case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
			return "timeout"
		case code == http.StatusNotFound:
			return "not_found"
		case code >= 500:
			return "server_error"
		case code >= 400:
			return "bad_request"
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range messageRules {
		for _, needle := range rule.needles {
			if strings.Contains(msg, needle) {
				return rule.label
			}
		}
	}
	return "unknown"
}

var messageRules = []struct {
	label   string
	needles []string
}{
	{"rate_limit", []string{"resource_exhausted", "rate limit", "quota"}},
	{"timeout", []string{"deadline exceeded", "timeout"}},
	{"auth_error", []string{"permission_denied", "unauthenticated", "invalid_grant", "token"}},
	{"server_error", []string{"unavailable", "internal", "server error"}},
}
