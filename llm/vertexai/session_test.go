package vertexai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr error
	}{
		{"ok", Settings{ProjectID: "p", Region: "us-central1"}, nil},
		{"ok europe", Settings{ProjectID: "p", Region: "europe-west4"}, nil},
		{"ok northamerica", Settings{ProjectID: "p", Region: "northamerica-northeast1"}, nil},
		{"global", Settings{ProjectID: "p", Region: "global"}, nil},
		{"missing project", Settings{Region: "us-central1"}, ErrMissingProject},
		{"empty region", Settings{ProjectID: "p"}, ErrInvalidRegion},
		{"bad region", Settings{ProjectID: "p", Region: "US Central"}, ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInitialize_EndToEnd(t *testing.T) {
	tokenSrv, _ := newTokenServer(t, http.StatusOK)
	keyFile := writeServiceAccountKey(t, tokenSrv.URL, "my-gemini-project")

	var gotPath, gotAuth string
	vertex := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Paris."}]}}]}`))
	}))
	defer vertex.Close()

	client, err := Initialize(context.Background(), Settings{
		ProjectID:         "my-gemini-project",
		Region:            "us-central1",
		CredentialsFile:   keyFile,
		APIEndpoint:       vertex.URL,
		MaxAttempts:       1,
		VerifyCredentials: true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", client.GetModelName())

	resp, err := client.SendPrompt(context.Background(), "What is the capital of France?", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "Paris.", resp)
	assert.Equal(t, "/v1/projects/my-gemini-project/locations/us-central1/publishers/google/models/gemini-2.5-pro:generateContent", gotPath)
	assert.Equal(t, "Bearer ya29.test-token", gotAuth)
}

func TestInitialize_FailsFast(t *testing.T) {
	_, err := Initialize(context.Background(), Settings{Region: "us-central1"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingProject)

	_, err = Initialize(context.Background(), Settings{
		ProjectID:       "p",
		Region:          "us-central1",
		CredentialsFile: "path/to/your/service-account-key.json",
	}, zap.NewNop())
	assert.ErrorContains(t, err, "error loading credentials")

	tokenSrv, _ := newTokenServer(t, http.StatusUnauthorized)
	keyFile := writeServiceAccountKey(t, tokenSrv.URL, "p")
	_, err = Initialize(context.Background(), Settings{
		ProjectID:         "p",
		Region:            "us-central1",
		CredentialsFile:   keyFile,
		VerifyCredentials: true,
	}, zap.NewNop())
	assert.ErrorContains(t, err, "error verifying credentials")
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, "https://us-central1-aiplatform.googleapis.com", DefaultBaseURL("us-central1"))
	assert.Equal(t, "https://aiplatform.googleapis.com", DefaultBaseURL("global"))
}

// garante que o corpo enviado é JSON válido mesmo sem histórico
func TestBuildRequest_NoHistory(t *testing.T) {
	req := buildRequest(nil, "hello", 0)
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contents":[{"role":"user","parts":[{"text":"hello"}]}]}`, string(data))
}
