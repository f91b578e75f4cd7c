/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package metrics

import (
	"github.com/diillson/geminiapp/llm/client"
	"github.com/prometheus/client_golang/prometheus"
)

// LLMMetrics agrupa as métricas das chamadas ao Gemini.
type LLMMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	HistoryLength   *prometheus.HistogramVec
	PromptChars     *prometheus.HistogramVec
	ResponseChars   *prometheus.HistogramVec
}

var _ client.MetricsRecorder = (*LLMMetrics)(nil)

// NewLLMMetrics cria as métricas e as registra em reg.
func NewLLMMetrics(reg prometheus.Registerer) *LLMMetrics {
	sizeBuckets := prometheus.ExponentialBuckets(64, 4, 8) // 64 .. ~1M caracteres
	m := &LLMMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Gemini calls by provider, model and status.",
		}, []string{"provider", "model", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Gemini call latency, retries included.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"provider", "model"}),

		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "llm",
			Name:      "errors_total",
			Help:      "Failed Gemini calls by error type.",
		}, []string{"provider", "model", "error_type"}),

		HistoryLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "llm",
			Name:      "history_messages",
			Help:      "Transcript entries replayed per call.",
			Buckets:   []float64{0, 2, 4, 8, 16, 32, 64, 128},
		}, []string{"model"}),

		PromptChars: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "llm",
			Name:      "prompt_chars",
			Help:      "Size of the prompt sent per call.",
			Buckets:   sizeBuckets,
		}, []string{"model"}),

		ResponseChars: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "llm",
			Name:      "response_chars",
			Help:      "Size of successful responses.",
			Buckets:   sizeBuckets,
		}, []string{"model"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ErrorsTotal,
		m.HistoryLength,
		m.PromptChars,
		m.ResponseChars,
	)

	return m
}

// ObserveCall registra uma chamada.
func (m *LLMMetrics) ObserveCall(s client.CallStats) {
	m.RequestsTotal.WithLabelValues(s.Provider, s.Model, s.Status).Inc()
	m.RequestDuration.WithLabelValues(s.Provider, s.Model).Observe(s.Duration.Seconds())
	m.HistoryLength.WithLabelValues(s.Model).Observe(float64(s.HistoryMessages))
	m.PromptChars.WithLabelValues(s.Model).Observe(float64(s.PromptChars))

	if s.ErrorType != "" {
		m.ErrorsTotal.WithLabelValues(s.Provider, s.Model, s.ErrorType).Inc()
		return
	}
	m.ResponseChars.WithLabelValues(s.Model).Observe(float64(s.ResponseChars))
}
