package metrics

import (
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/diillson/geminiapp/llm/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestRegistryContainsGoAndProcessCollectors(t *testing.T) {
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	if !names["go_goroutines"] {
		t.Error("expected go_goroutines metric from GoCollector")
	}
}

func TestLLMMetricsObserveCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLLMMetrics(reg)

	m.ObserveCall(client.CallStats{
		Provider: "VERTEXAI", Model: "gemini-2.5-pro", Status: "success",
		Duration: 1500 * time.Millisecond, HistoryMessages: 4, PromptChars: 120, ResponseChars: 900,
	})
	m.ObserveCall(client.CallStats{
		Provider: "VERTEXAI", Model: "gemini-2.5-pro", Status: "error", ErrorType: "rate_limit",
		Duration: time.Second, PromptChars: 80,
	})

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("VERTEXAI", "gemini-2.5-pro", "success")); got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("VERTEXAI", "gemini-2.5-pro", "rate_limit")); got != 1 {
		t.Errorf("expected 1 rate_limit error, got %v", got)
	}
	// falhas não contam tamanho de resposta
	if got := testutil.CollectAndCount(m.ResponseChars); got != 1 {
		t.Errorf("expected 1 response_chars series, got %d", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"geminiapp_llm_requests_total",
		"geminiapp_llm_request_duration_seconds",
		"geminiapp_llm_errors_total",
		"geminiapp_llm_history_messages",
		"geminiapp_llm_prompt_chars",
		"geminiapp_llm_response_chars",
	} {
		if !names[name] {
			t.Errorf("expected metric %q not found", name)
		}
	}
}

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSessionMetrics(reg)

	m.RecordTask("question")
	m.RecordTask("question")
	m.ConversationStarted()
	m.RecordTurn("success")
	m.RecordTurn("error")

	if got := testutil.ToFloat64(m.TasksTotal.WithLabelValues("question")); got != 2 {
		t.Errorf("expected 2 question tasks, got %v", got)
	}
	if got := testutil.ToFloat64(m.ActiveConversations); got != 1 {
		t.Errorf("expected 1 active conversation, got %v", got)
	}
	m.ConversationEnded()
	if got := testutil.ToFloat64(m.ActiveConversations); got != 0 {
		t.Errorf("expected 0 active conversations, got %v", got)
	}
	if got := testutil.ToFloat64(m.TurnsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed turn, got %v", got)
	}
}

func TestMetricsServerStartStop(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewLLMMetrics(reg).ObserveCall(client.CallStats{Provider: "VERTEXAI", Model: "m", Status: "success", Duration: time.Second})

	srv := NewServer(0, reg, zap.NewNop())
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer srv.Stop()

	_, port, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("unexpected addr %q: %v", srv.Addr(), err)
	}
	base := "http://127.0.0.1:" + port

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("failed to reach healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp2, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("failed to reach metrics: %v", err)
	}
	defer resp2.Body.Close()
	body, _ := io.ReadAll(resp2.Body)
	if !strings.Contains(string(body), "geminiapp_llm_requests_total") {
		t.Error("expected geminiapp_llm_requests_total in metrics output")
	}
}
