package cli

import (
	"testing"

	"github.com/diillson/geminiapp/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildConversationPrompt(t *testing.T) {
	assert.Equal(t,
		"You are engaging in a conversation. Respond naturally.\n\nUser: hello",
		BuildConversationPrompt(nil, "hello"))

	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "Hi! How can I help?"},
	}
	assert.Equal(t,
		"You are engaging in a conversation. Respond naturally.\n\n"+
			"User: hello\n"+
			"Gemini: Hi! How can I help?\n"+
			"User: tell me a joke",
		BuildConversationPrompt(history, "tell me a joke"))
}

func TestIsQuit(t *testing.T) {
	for _, in := range []string{"quit", "QUIT", "Quit", "qUiT"} {
		assert.True(t, IsQuit(in), in)
	}
	for _, in := range []string{"", "exit", "quitting", "q", "quit ", " quit", " quit "} {
		assert.False(t, IsQuit(in), in)
	}
}

func TestConversation_AppendTurn(t *testing.T) {
	conv := NewConversation()
	assert.NotEmpty(t, conv.ID)

	conv.AppendTurn("a", "b")
	conv.AppendTurn("c", "d")

	got := conv.Transcript()
	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleAssistant, Content: "b"},
		{Role: models.RoleUser, Content: "c"},
		{Role: models.RoleAssistant, Content: "d"},
	}, got)

	// Transcript devolve uma cópia
	got[0].Content = "changed"
	assert.Equal(t, "a", conv.Transcript()[0].Content)
}

func TestHistoryStrategies(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 5; i++ {
		conv.AppendTurn("u", "a")
	}
	transcript := conv.Transcript()

	assert.Len(t, FullHistory{}.Select(transcript), 10)

	windowed := WindowedHistory{MaxTurns: 2}.Select(transcript)
	assert.Len(t, windowed, 4)
	assert.Equal(t, models.RoleUser, windowed[0].Role)

	assert.Len(t, WindowedHistory{MaxTurns: 10}.Select(transcript), 10)
	assert.Len(t, WindowedHistory{}.Select(transcript), 10)

	assert.IsType(t, FullHistory{}, NewHistoryStrategy(0))
	assert.Equal(t, WindowedHistory{MaxTurns: 3}, NewHistoryStrategy(3))
}
