/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics holds Prometheus metrics for the interactive menu and conversations.
type SessionMetrics struct {
	TasksTotal          *prometheus.CounterVec
	ActiveConversations prometheus.Gauge
	TurnsTotal          *prometheus.CounterVec
}

// NewSessionMetrics creates session metrics and registers them on reg.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		TasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "tasks_total",
			Help:      "Menu selections by task (generate, question, summarize, translate, code, conversation, exit, invalid).",
		}, []string{"task"}),

		ActiveConversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "active_conversations",
			Help:      "Number of conversational sessions currently open.",
		}),

		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "conversation_turns_total",
			Help:      "Conversation turns by outcome (success, error).",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.TasksTotal,
		m.ActiveConversations,
		m.TurnsTotal,
	)

	return m
}

func (m *SessionMetrics) RecordTask(task string) {
	m.TasksTotal.WithLabelValues(task).Inc()
}

func (m *SessionMetrics) ConversationStarted() {
	m.ActiveConversations.Inc()
}

func (m *SessionMetrics) ConversationEnded() {
	m.ActiveConversations.Dec()
}

func (m *SessionMetrics) RecordTurn(outcome string) {
	m.TurnsTotal.WithLabelValues(outcome).Inc()
}
