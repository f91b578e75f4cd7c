package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(zap.NewNop(), 30*time.Second)
	require.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.Timeout)
	_, ok := client.Transport.(*LoggingTransport)
	assert.True(t, ok, "transport deveria ser LoggingTransport")
}

func TestNewHTTPClient_StripsAuthOnCrossOriginRedirect(t *testing.T) {
	var got http.Header
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer origin.Close()

	client := NewHTTPClient(zap.NewNop(), 0)
	req, err := http.NewRequest(http.MethodGet, origin.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Goog-User-Project", "my-project")
	req.Header.Set("X-Trace", "kept")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotNil(t, got)
	assert.Empty(t, got.Get("Authorization"))
	assert.Empty(t, got.Get("X-Goog-User-Project"))
	assert.Equal(t, "kept", got.Get("X-Trace"))
}

func TestCheckRedirect_Limits(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://example.com/a", nil)
	via := make([]*http.Request, maxRedirects)
	for i := range via {
		via[i] = req
	}
	assert.Error(t, checkRedirect(req, via))
	assert.NoError(t, checkRedirect(req, nil))
}
