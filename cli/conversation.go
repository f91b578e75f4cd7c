/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package cli

import (
	"strings"

	"github.com/diillson/geminiapp/models"
	"github.com/google/uuid"
)

// QuitKeyword ends the conversation loop, compared case-insensitively.
const QuitKeyword = "quit"

// conversationPreamble opens every rendered conversation prompt.
const conversationPreamble = "You are engaging in a conversation. Respond naturally.\n\n"

// Conversation holds the transcript of one conversational session.
// Entries alternate user/assistant; it is discarded when the session ends.
type Conversation struct {
	ID         string
	transcript []models.Message
}

// NewConversation starts an empty session.
func NewConversation() *Conversation {
	return &Conversation{ID: uuid.NewString()}
}

// Transcript returns a copy of the turns so far.
func (c *Conversation) Transcript() []models.Message {
	out := make([]models.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Len returns the number of entries (twice the number of turns).
func (c *Conversation) Len() int {
	return len(c.transcript)
}

// AppendTurn records a user message and the reply to it, in that order.
func (c *Conversation) AppendTurn(userMessage, reply string) {
	c.transcript = append(c.transcript,
		models.Message{Role: models.RoleUser, Content: userMessage},
		models.Message{Role: models.RoleAssistant, Content: reply},
	)
}

// IsQuit reports whether line, without its terminator, is the quit keyword.
// Surrounding spaces make it an ordinary message.
func IsQuit(line string) bool {
	return strings.EqualFold(line, QuitKeyword)
}

// roleLabel is how a role is shown in the rendered prompt.
func roleLabel(role string) string {
	if role == models.RoleAssistant {
		return "Gemini"
	}
	return "User"
}

// BuildConversationPrompt renders the preamble, one "Role: text" line per entry and the new message.
func BuildConversationPrompt(history []models.Message, message string) string {
	var b strings.Builder
	b.WriteString(conversationPreamble)
	for _, m := range history {
		b.WriteString(roleLabel(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(message)
	return b.String()
}

// HistoryStrategy picks which part of the transcript is replayed on the next turn.
type HistoryStrategy interface {
	Select(transcript []models.Message) []models.Message
}

// FullHistory replays the whole transcript every turn.
type FullHistory struct{}

// Select returns transcript unchanged.
func (FullHistory) Select(transcript []models.Message) []models.Message {
	return transcript
}

// WindowedHistory replays only the last MaxTurns user/assistant pairs.
type WindowedHistory struct {
	MaxTurns int
}

// Select returns the tail of transcript holding at most MaxTurns pairs.
func (w WindowedHistory) Select(transcript []models.Message) []models.Message {
	if w.MaxTurns <= 0 {
		return transcript
	}
	keep := w.MaxTurns * 2
	if len(transcript) <= keep {
		return transcript
	}
	// keep pairs intact: start on an even index
	start := len(transcript) - keep
	if start%2 != 0 {
		start++
	}
	return transcript[start:]
}

// NewHistoryStrategy returns FullHistory for window <= 0, WindowedHistory otherwise.
func NewHistoryStrategy(window int) HistoryStrategy {
	if window <= 0 {
		return FullHistory{}
	}
	return WindowedHistory{MaxTurns: window}
}
