/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const defaultTerminalWidth = 100

// Renderer turns a model response into what gets printed.
type Renderer interface {
	Render(text string) string
}

// PlainRenderer prints responses untouched.
type PlainRenderer struct{}

func (PlainRenderer) Render(text string) string { return text }

// MarkdownRenderer renders responses with glamour.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	logger   *zap.Logger
}

func (r *MarkdownRenderer) Render(text string) string {
	out, err := r.renderer.Render(text)
	if err != nil {
		r.logger.Warn("Falha ao renderizar markdown, usando texto puro", zap.Error(err))
		return text
	}
	return strings.TrimRight(out, "\n")
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderer picks markdown rendering when enabled and out is a terminal.
func NewRenderer(out io.Writer, enabled bool, logger *zap.Logger) Renderer {
	if !enabled {
		return PlainRenderer{}
	}
	if !IsTerminal(out) {
		return PlainRenderer{}
	}
	f := out.(*os.File)

	width := defaultTerminalWidth
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = w
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Warn("Renderer markdown indisponível", zap.Error(err))
		return PlainRenderer{}
	}
	return &MarkdownRenderer{renderer: tr, logger: logger}
}
