/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// APIError é uma resposta HTTP não-200 do Vertex AI.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration // do header Retry-After, quando presente
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d - %s", e.StatusCode, e.Message)
}

// NewAPIError monta um APIError a partir da resposta, lendo Retry-After em segundos.
func NewAPIError(resp *http.Response, message string) *APIError {
	e := &APIError{StatusCode: resp.StatusCode, Message: message}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	return e
}

// RetryPolicy controla quantas vezes e com que espera uma chamada é repetida.
type RetryPolicy struct {
	MaxAttempts    int           // < 1 vale como 1
	InitialBackoff time.Duration // dobra a cada tentativa
	MaxBackoff     time.Duration // 0 = sem teto
}

// next devolve a espera antes da próxima tentativa. Retry-After do servidor tem precedência.
func (p RetryPolicy) next(backoff time.Duration, err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		backoff = apiErr.RetryAfter
	}
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		return p.MaxBackoff
	}
	return backoff
}

// grow dobra backoff sem passar de MaxBackoff nem estourar time.Duration.
func (p RetryPolicy) grow(backoff time.Duration) time.Duration {
	if backoff > math.MaxInt64/2 {
		return backoff
	}
	backoff *= 2
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		return p.MaxBackoff
	}
	return backoff
}

// Retry executa fn repetindo apenas erros temporários (timeout de rede, 429, 5xx).
func Retry[T any](ctx context.Context, logger *zap.Logger, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(policy.MaxAttempts, 1)
	backoff := policy.InitialBackoff

	for attempt := 1; ; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("Requisição bem-sucedida após retry", zap.Int("attempt", attempt))
			}
			return res, nil
		}
		if attempt >= attempts || !IsTemporaryError(err) {
			if attempts > 1 {
				logger.Warn("Desistindo da requisição",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", attempts),
					zap.Error(err))
			}
			return zero, err
		}

		wait := policy.next(backoff, err)
		logger.Warn("Erro temporário, nova tentativa",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		backoff = policy.grow(backoff)
	}
}

// IsTemporaryError verifica se vale a pena repetir a chamada.
func IsTemporaryError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || (apiErr.StatusCode >= 500 && apiErr.StatusCode < 600)
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
