package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/diillson/geminiapp/llm/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnimationManager(t *testing.T) {
	var buf bytes.Buffer
	am := NewAnimationManager(&buf)
	am.interval = 5 * time.Millisecond

	am.ShowThinkingAnimation("gemini-2.5-pro")
	time.Sleep(30 * time.Millisecond)
	am.StopThinkingAnimation()

	out := buf.String()
	assert.Contains(t, out, "gemini-2.5-pro is thinking... |")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"))

	// parar duas vezes não deve travar
	am.StopThinkingAnimation()
}

func TestApp_WithAnimationClearsBeforeResponse(t *testing.T) {
	llm := &client.MockLLMClient{Model: "gemini-2.5-pro", Replies: []client.Reply{{Text: "Paris."}}}
	var out bytes.Buffer
	app := NewApp(llm, zap.NewNop(),
		WithInput(strings.NewReader("2\nCapital?\n7\n")),
		WithOutput(&out),
		WithAnimation(NewAnimationManager(&out)),
	)

	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	spin := strings.Index(text, "is thinking...")
	resp := strings.Index(text, "Paris.")
	require.GreaterOrEqual(t, spin, 0)
	assert.Less(t, spin, resp)
	assert.Contains(t, text, "\r\033[KParis.")
}
