/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package cli

import (
	"errors"
	"fmt"

	"github.com/diillson/geminiapp/i18n"
)

// Menu choices, typed literally by the user.
const (
	ChoiceGenerate     = "1"
	ChoiceQuestion     = "2"
	ChoiceSummarize    = "3"
	ChoiceTranslate    = "4"
	ChoiceCode         = "5"
	ChoiceConversation = "6"
	ChoiceExit         = "7"
)

// TaskInput is one free-text value collected before building a prompt.
type TaskInput struct {
	Name     string // e.g. "topic", used by one-shot -input flags
	LabelKey string // i18n key of the console prompt
}

// Task is a single-shot prompt template selectable from the menu.
type Task struct {
	Choice   string
	Name     string
	TitleKey string
	Inputs   []TaskInput
	Build    func(values map[string]string) string
}

// StoryPrompt builds the free-form generation prompt.
func StoryPrompt(topic string) string {
	return fmt.Sprintf("Write a creative and engaging piece (story, poem, or article) "+
		"about the following topic: '%s'. "+
		"Make it at least 200 words long. Focus on imaginative details.", topic)
}

// QuestionPrompt builds the Q&A prompt.
func QuestionPrompt(question string) string {
	return fmt.Sprintf("Answer the following question clearly and concisely: '%s'.", question)
}

// SummaryPrompt builds the summarization prompt.
func SummaryPrompt(content, lengthPreference string) string {
	return fmt.Sprintf("Summarize the following content. "+
		"Desired length/format: %s.\n\n"+
		"Content: %s", lengthPreference, content)
}

// TranslationPrompt builds the translation prompt.
func TranslationPrompt(text, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text into %s. "+
		"Provide only the translated text.\n\n"+
		"Text: '%s'", targetLanguage, text)
}

// CodePrompt builds the code generation prompt.
func CodePrompt(codeRequest, language string) string {
	return fmt.Sprintf("Generate a %s code snippet for the following request: "+
		"'%s'. Include comments and make it functional.", language, codeRequest)
}

// Tasks lists the single-shot tasks in menu order.
var Tasks = []Task{
	{
		Choice:   ChoiceGenerate,
		Name:     "generate",
		TitleKey: "task.generate.title",
		Inputs:   []TaskInput{{Name: "topic", LabelKey: "task.generate.topic"}},
		Build:    func(v map[string]string) string { return StoryPrompt(v["topic"]) },
	},
	{
		Choice:   ChoiceQuestion,
		Name:     "question",
		TitleKey: "task.question.title",
		Inputs:   []TaskInput{{Name: "question", LabelKey: "task.question.question"}},
		Build:    func(v map[string]string) string { return QuestionPrompt(v["question"]) },
	},
	{
		Choice:   ChoiceSummarize,
		Name:     "summarize",
		TitleKey: "task.summarize.title",
		Inputs: []TaskInput{
			{Name: "content", LabelKey: "task.summarize.content"},
			{Name: "length_preference", LabelKey: "task.summarize.length_preference"},
		},
		Build: func(v map[string]string) string { return SummaryPrompt(v["content"], v["length_preference"]) },
	},
	{
		Choice:   ChoiceTranslate,
		Name:     "translate",
		TitleKey: "task.translate.title",
		Inputs: []TaskInput{
			{Name: "text", LabelKey: "task.translate.text"},
			{Name: "target_language", LabelKey: "task.translate.target_language"},
		},
		Build: func(v map[string]string) string { return TranslationPrompt(v["text"], v["target_language"]) },
	},
	{
		Choice:   ChoiceCode,
		Name:     "code",
		TitleKey: "task.code.title",
		Inputs: []TaskInput{
			{Name: "code_request", LabelKey: "task.code.code_request"},
			{Name: "language", LabelKey: "task.code.language"},
		},
		Build: func(v map[string]string) string { return CodePrompt(v["code_request"], v["language"]) },
	},
}

// FindTask returns the single-shot task for a menu choice.
func FindTask(choice string) (Task, bool) {
	for _, t := range Tasks {
		if t.Choice == choice {
			return t, true
		}
	}
	return Task{}, false
}

// BuildFromInputs validates that every input is present and builds the prompt.
func (t Task) BuildFromInputs(values map[string]string) (string, error) {
	for _, in := range t.Inputs {
		if _, ok := values[in.Name]; !ok {
			return "", errors.New(i18n.T("oneshot.missing_input", in.Name, t.Name))
		}
	}
	return t.Build(values), nil
}

// menuOptionKeys are the i18n keys of the seven menu lines, in order.
var menuOptionKeys = []string{
	"menu.option.generate",
	"menu.option.question",
	"menu.option.summarize",
	"menu.option.translate",
	"menu.option.code",
	"menu.option.conversation",
	"menu.option.exit",
}
