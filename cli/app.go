/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/diillson/geminiapp/config"
	"github.com/diillson/geminiapp/i18n"
	"github.com/diillson/geminiapp/llm/client"
	"github.com/diillson/geminiapp/models"
	"go.uber.org/zap"
)

// SessionRecorder receives menu and conversation events, typically metrics.SessionMetrics.
type SessionRecorder interface {
	RecordTask(task string)
	ConversationStarted()
	ConversationEnded()
	RecordTurn(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordTask(string) {}
func (nopRecorder) ConversationStarted() {}
func (nopRecorder) ConversationEnded() {}
func (nopRecorder) RecordTurn(string) {}

// App is the interactive menu loop. It is single-threaded: one blocking model call at a time.
type App struct {
	client    client.LLMClient
	logger    *zap.Logger
	in        *bufio.Reader
	out       io.Writer
	renderer  Renderer
	history   HistoryStrategy
	mode      string
	maxTokens int
	recorder  SessionRecorder
	animation *AnimationManager
}

// Option configures an App.
type Option func(*App)

// WithInput sets where lines are read from (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(a *App) { a.in = bufio.NewReader(r) }
}

// WithOutput sets where everything is printed (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithRenderer sets how single-shot responses are rendered.
func WithRenderer(r Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithHistoryStrategy sets which part of the transcript is replayed per turn.
func WithHistoryStrategy(h HistoryStrategy) Option {
	return func(a *App) { a.history = h }
}

// WithConversationMode selects config.ConversationModeChat or config.ConversationModeFlat.
func WithConversationMode(mode string) Option {
	return func(a *App) { a.mode = mode }
}

// WithMaxTokens caps the response length; <= 0 leaves it to the client.
func WithMaxTokens(n int) Option {
	return func(a *App) { a.maxTokens = n }
}

// WithRecorder wires a SessionRecorder.
func WithRecorder(r SessionRecorder) Option {
	return func(a *App) { a.recorder = r }
}

// WithAnimation shows a spinner while a model call is pending. Off by default.
func WithAnimation(am *AnimationManager) Option {
	return func(a *App) { a.animation = am }
}

// NewApp builds the orchestrator around an initialized model handle.
func NewApp(llm client.LLMClient, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		client:   llm,
		logger:   logger,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		renderer: PlainRenderer{},
		history:  FullHistory{},
		mode:     config.ConversationModeChat,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run shows the menu until the user picks Exit or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.printMenu()
		choice, err := a.prompt(i18n.T("menu.prompt"))
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case ChoiceExit:
			a.recorder.RecordTask("exit")
			a.println(i18n.T("app.goodbye"))
			return nil
		case ChoiceConversation:
			a.recorder.RecordTask("conversation")
			if err := a.runConversation(ctx); err != nil {
				return endOfInput(err)
			}
		default:
			task, ok := FindTask(choice)
			if !ok {
				a.recorder.RecordTask("invalid")
				a.logger.Debug("Escolha inválida no menu", zap.String("choice", choice))
				a.println(i18n.T("menu.invalid"))
				continue
			}
			a.recorder.RecordTask(task.Name)
			if err := a.runTask(ctx, task); err != nil {
				return endOfInput(err)
			}
		}
	}
}

func (a *App) printMenu() {
	a.println(i18n.T("menu.header"))
	a.println(i18n.T("menu.select"))
	for _, key := range menuOptionKeys {
		a.println(i18n.T(key))
	}
	a.println(i18n.T("menu.footer"))
}

// runTask collects the task inputs, sends the prompt and prints the response.
// Only input errors are returned; model failures are printed and swallowed.
func (a *App) runTask(ctx context.Context, task Task) error {
	a.println(i18n.T(task.TitleKey))

	values := make(map[string]string, len(task.Inputs))
	for _, in := range task.Inputs {
		v, err := a.prompt(i18n.T(in.LabelKey))
		if err != nil {
			return err
		}
		values[in.Name] = v
	}

	prompt := task.Build(values)
	a.logger.Info("Enviando tarefa", zap.String("task", task.Name), zap.Int("prompt_length", len(prompt)))
	a.generate(ctx, prompt)
	return nil
}

// generate performs one round trip and prints the framed response.
func (a *App) generate(ctx context.Context, prompt string) {
	a.println(i18n.T("response.header"))
	response, err := a.send(ctx, prompt, nil)
	if err != nil {
		a.logger.Error("Erro ao gerar resposta", zap.Error(err))
		a.println(i18n.T("response.error", err.Error()))
		a.println(i18n.T("response.error_hint"))
		a.println(i18n.T("response.error_iam_hint"))
	} else {
		a.println(a.renderer.Render(response))
	}
	a.println(i18n.T("response.footer"))
}

// runConversation is the nested chat loop. The transcript lives only inside this call.
func (a *App) runConversation(ctx context.Context) error {
	a.println(i18n.T("conversation.title"))
	a.println(i18n.T("conversation.hint"))

	conv := NewConversation()
	a.recorder.ConversationStarted()
	defer a.recorder.ConversationEnded()
	a.logger.Info("Conversa iniciada", zap.String("conversation_id", conv.ID))

	for {
		message, err := a.prompt(i18n.T("conversation.you"))
		if err != nil {
			return err
		}
		if IsQuit(message) {
			a.println(i18n.T("conversation.end"))
			a.logger.Info("Conversa encerrada",
				zap.String("conversation_id", conv.ID),
				zap.Int("entries", conv.Len()))
			return nil
		}

		reply := a.Converse(ctx, conv, message)
		a.println(i18n.T("conversation.reply", reply))
	}
}

// Converse sends one conversational turn and appends it to conv.
// A failed call still produces a turn whose reply is the error text.
func (a *App) Converse(ctx context.Context, conv *Conversation, message string) string {
	history := a.history.Select(conv.Transcript())
	rendered := BuildConversationPrompt(history, message)
	a.logger.Debug("Prompt da conversa",
		zap.String("conversation_id", conv.ID),
		zap.Int("history_length", len(history)),
		zap.String("prompt", rendered))

	var (
		reply string
		err   error
	)
	if a.mode == config.ConversationModeFlat {
		reply, err = a.send(ctx, rendered, nil)
	} else {
		reply, err = a.send(ctx, message, history)
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
		a.logger.Error("Erro durante a conversa", zap.String("conversation_id", conv.ID), zap.Error(err))
		reply = fmt.Sprintf("An error occurred during conversation: %v", err)
	}
	a.recorder.RecordTurn(outcome)

	conv.AppendTurn(message, reply)
	return reply
}

// RunOnce runs one single-shot task non-interactively and prints only the response.
func (a *App) RunOnce(ctx context.Context, choice string, values map[string]string) error {
	task, ok := FindTask(choice)
	if !ok {
		return errors.New(i18n.T("oneshot.invalid_task", choice))
	}
	prompt, err := task.BuildFromInputs(values)
	if err != nil {
		return err
	}
	a.recorder.RecordTask(task.Name)

	response, err := a.client.SendPrompt(ctx, prompt, nil, a.maxTokens)
	if err != nil {
		return err
	}
	a.println(a.renderer.Render(response))
	return nil
}

// send is the single place where the model is called.
func (a *App) send(ctx context.Context, prompt string, history []models.Message) (string, error) {
	if a.animation != nil {
		a.animation.ShowThinkingAnimation(a.client.GetModelName())
		defer a.animation.StopThinkingAnimation()
	}
	return a.client.SendPrompt(ctx, prompt, history, a.maxTokens)
}

// prompt prints label and reads one line without its line terminator.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

// endOfInput turns a closed stdin into a normal exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
