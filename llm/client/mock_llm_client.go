package client

import (
	"context"
	"errors"

	"github.com/diillson/geminiapp/models"
)

// ErrNoScriptedReply is returned when a MockLLMClient runs out of scripted replies.
var ErrNoScriptedReply = errors.New("mock: no scripted reply left")

// Reply is one scripted answer of MockLLMClient.
type Reply struct {
	Text string
	Err  error
}

// Call records the arguments of one SendPrompt invocation.
type Call struct {
	Prompt  string
	History []models.Message
}

// MockLLMClient is a scripted LLMClient for tests: each SendPrompt consumes the next Reply.
type MockLLMClient struct {
	Model   string
	Replies []Reply
	Calls   []Call
}

func (m *MockLLMClient) GetModelName() string {
	if m.Model == "" {
		return "MockModel"
	}
	return m.Model
}

func (m *MockLLMClient) SendPrompt(ctx context.Context, prompt string, history []models.Message, maxTokens int) (string, error) {
	snapshot := make([]models.Message, len(history))
	copy(snapshot, history)
	m.Calls = append(m.Calls, Call{Prompt: prompt, History: snapshot})

	if len(m.Replies) == 0 {
		return "", ErrNoScriptedReply
	}
	r := m.Replies[0]
	m.Replies = m.Replies[1:]
	return r.Text, r.Err
}
