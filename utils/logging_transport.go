/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// sensitiveFields são mascarados nos corpos JSON e form logados.
var sensitiveFields = []string{"api_key", "password", "access_token", "id_token", "refresh_token", "private_key", "assertion"}

// LoggingTransport é um http.RoundTripper que adiciona logs às requisições e respostas
type LoggingTransport struct {
	Logger      *zap.Logger
	Transport   http.RoundTripper
	MaxBodySize int
}

// RoundTrip implementa a interface http.RoundTripper
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.Logger.Info("Enviando requisição",
		zap.String("method", req.Method),
		zap.String("url", redactURL(req.URL)),
		zap.String("headers", headersToString(req.Header)),
	)

	if req.Body != nil {
		reqBodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Logger.Error("Erro ao ler o corpo da requisição", zap.Error(err))
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes)) // Resetar o Body
		t.Logger.Debug("Corpo da requisição",
			zap.ByteString("body", t.sanitizeBody(req.Header.Get("Content-Type"), reqBodyBytes)))
	}

	start := time.Now()
	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.Logger.Error("Erro na requisição",
			zap.String("method", req.Method),
			zap.String("url", redactURL(req.URL)),
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return resp, err
	}

	t.Logger.Info("Resposta recebida",
		zap.String("method", req.Method),
		zap.String("url", redactURL(req.URL)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if resp.Body != nil {
		respBodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Logger.Error("Erro ao ler o corpo da resposta", zap.Error(err))
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewBuffer(respBodyBytes)) // Resetar o Body
		t.Logger.Debug("Corpo da resposta",
			zap.ByteString("body", t.sanitizeBody(resp.Header.Get("Content-Type"), respBodyBytes)))
	}

	return resp, nil
}

// redactURL remove valores de query como key= antes de logar.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clone := *u
	q := clone.Query()
	for k := range q {
		if strings.EqualFold(k, "key") || strings.EqualFold(k, "access_token") {
			q.Set(k, "[REDACTED]")
		}
	}
	clone.RawQuery = q.Encode()
	return clone.String()
}

// headersToString converte os cabeçalhos para uma string legível, em ordem estável
func headersToString(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, key := range keys {
		switch strings.ToLower(key) {
		case "authorization", "x-goog-api-key", "api-key", "x-api-key":
			buf.WriteString(fmt.Sprintf("%s: [REDACTED]; ", key))
			continue
		}
		for _, value := range headers[key] {
			buf.WriteString(fmt.Sprintf("%s: %s; ", key, value))
		}
	}
	return buf.String()
}

// sanitizeBody remove ou mascara dados sensíveis do corpo da requisição/resposta
func (t *LoggingTransport) sanitizeBody(contentType string, body []byte) []byte {
	if len(body) > t.MaxBodySize {
		return []byte(fmt.Sprintf("[Corpo muito grande para ser logado, tamanho: %d bytes]", len(body)))
	}

	if strings.Contains(contentType, "application/json") {
		var data map[string]interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			for _, field := range sensitiveFields {
				if _, exists := data[field]; exists {
					data[field] = "[REDACTED]"
				}
			}
			sanitized, _ := json.Marshal(data)
			return sanitized
		}
	}

	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		values, err := url.ParseQuery(string(body))
		if err == nil {
			for _, field := range sensitiveFields {
				if _, exists := values[field]; exists {
					values.Set(field, "[REDACTED]")
				}
			}
			return []byte(values.Encode())
		}
	}

	return body
}
