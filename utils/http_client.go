/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package utils

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxRedirects is the maximum number of HTTP redirects to follow.
const maxRedirects = 10

// credentialHeaders carregam o token OAuth ou o projeto de cobrança do Vertex AI.
var credentialHeaders = []string{"Authorization", "X-Goog-Api-Key", "X-Goog-User-Project"}

// NewHTTPClient cria um cliente HTTP com LoggingTransport e timeout configurado.
// timeout zero significa sem limite.
func NewHTTPClient(logger *zap.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingTransport{
			Logger:      logger,
			Transport:   http.DefaultTransport,
			MaxBodySize: 2048,
		},
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
	}
}

// checkRedirect limita redirects e não repassa credenciais para outra origem.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if len(via) == 0 {
		return nil
	}
	first := via[0].URL
	if req.URL.Scheme != first.Scheme || req.URL.Host != first.Host {
		for _, h := range credentialHeaders {
			req.Header.Del(h)
		}
	}
	return nil
}
