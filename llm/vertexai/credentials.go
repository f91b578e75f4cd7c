/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package vertexai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/diillson/geminiapp/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrEmptyCredentialsFile is returned when the key file exists but has no content.
var ErrEmptyCredentialsFile = errors.New("credentials file is empty")

// Authenticator applies authentication to an outgoing Vertex AI request.
type Authenticator interface {
	Apply(ctx context.Context, req *http.Request) error
}

// Credential implements OAuth2 bearer authentication for Vertex AI.
type Credential struct {
	tokenSource oauth2.TokenSource
	projectID   string
	source      string
}

// LoadCredentials builds a Credential from a service account key file.
// An empty keyFile falls back to Application Default Credentials
// (GOOGLE_APPLICATION_CREDENTIALS, gcloud auth, metadata server).
func LoadCredentials(ctx context.Context, keyFile string) (*Credential, error) {
	if keyFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, config.VertexOAuthScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return &Credential{
			tokenSource: creds.TokenSource,
			projectID:   creds.ProjectID,
			source:      "application_default",
		}, nil
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", keyFile, ErrEmptyCredentialsFile)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, config.VertexOAuthScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	var meta struct {
		ProjectID string `json:"project_id"`
	}
	_ = json.Unmarshal(data, &meta)

	return &Credential{
		tokenSource: jwtConfig.TokenSource(ctx),
		projectID:   meta.ProjectID,
		source:      "service_account",
	}, nil
}

// NewStaticCredential wraps a fixed access token. Used for tokens minted outside the process.
func NewStaticCredential(accessToken string) *Credential {
	return &Credential{
		tokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
		source:      "static",
	}
}

// Token returns a valid access token, refreshing it when needed.
func (c *Credential) Token() (*oauth2.Token, error) {
	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get GCP token: %w", err)
	}
	return token, nil
}

// Apply adds the OAuth2 bearer token to the request.
func (c *Credential) Apply(_ context.Context, req *http.Request) error {
	token, err := c.Token()
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)
	return nil
}

// ProjectID returns the project embedded in the key, if any.
func (c *Credential) ProjectID() string {
	return c.projectID
}

// Source names where the credential came from ("service_account", "application_default", "static").
func (c *Credential) Source() string {
	return c.source
}
