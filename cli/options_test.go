package cli

import (
	"testing"

	"github.com/diillson/geminiapp/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParse_Defaults(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)
	assert.False(t, opts.Version)
	assert.False(t, opts.OneShot())
	assert.Empty(t, opts.Inputs)
}

func TestParse_OneShotInputs(t *testing.T) {
	opts, err := Parse([]string{
		"-task", "4",
		"-input", "text=Hello, world",
		"-input", "target_language=French",
		"-input", "empty=",
	})
	require.NoError(t, err)
	assert.True(t, opts.OneShot())
	assert.Equal(t, "4", opts.Task)
	assert.Equal(t, "Hello, world", opts.Inputs["text"])
	assert.Equal(t, "French", opts.Inputs["target_language"])
	assert.Equal(t, "", opts.Inputs["empty"])
	assert.Equal(t, "empty=,target_language=French,text=Hello, world", opts.Inputs.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"input sem igual", []string{"-task", "2", "-input", "question"}},
		{"input sem chave", []string{"-task", "2", "-input", "=x"}},
		{"input sem task", []string{"-input", "question=x"}},
		{"argumento posicional", []string{"extra"}},
		{"flag desconhecida", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestOptions_ApplyTo(t *testing.T) {
	t.Setenv(config.KeyProjectID, "env-project")
	t.Setenv(config.KeyLocation, "europe-west4")

	cm := config.New(zap.NewNop(), "does-not-exist.env")
	require.NoError(t, cm.Load())

	opts, err := Parse([]string{"-project", "flag-project", "-model", "gemini-2.5-flash"})
	require.NoError(t, err)
	opts.ApplyTo(cm)

	assert.Equal(t, "flag-project", cm.GetString(config.KeyProjectID))
	assert.Equal(t, "europe-west4", cm.GetString(config.KeyLocation))
	assert.Equal(t, "gemini-2.5-flash", cm.GetString(config.KeyModel))
}
