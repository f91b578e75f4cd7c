package utils

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/diillson/geminiapp/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"100", 100, false},
		{"10B", 10, false},
		{"2KB", 2048, false},
		{"50MB", 50 * 1024 * 1024, false},
		{" 1gb ", 1024 * 1024 * 1024, false},
		{"abc", 0, true},
		{"MB", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxLogSizeMB(t *testing.T) {
	assert.Equal(t, config.DefaultMaxLogSize, maxLogSizeMB(""))
	assert.Equal(t, 200, maxLogSizeMB("200MB"))
	assert.Equal(t, 2048, maxLogSizeMB("2GB"))
	// abaixo de 1MB não faz sentido para o lumberjack
	assert.Equal(t, config.DefaultMaxLogSize, maxLogSizeMB("10KB"))
	assert.Equal(t, config.DefaultMaxLogSize, maxLogSizeMB("lots"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zap.DebugLevel, lvl)

	lvl, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zap.InfoLevel, lvl)

	_, err = parseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerConfigFromEnv(t *testing.T) {
	cfg, err := LoggerConfigFromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, LoggerConfig{
		Level:     zap.InfoLevel,
		File:      config.DefaultLogFile,
		MaxSizeMB: config.DefaultMaxLogSize,
	}, cfg)

	cfg, err = LoggerConfigFromEnv(envMap(map[string]string{"LOG_CONSOLE": "true", "LOG_FILE": "/tmp/x.log"}))
	require.NoError(t, err)
	assert.True(t, cfg.Console)
	assert.Equal(t, "/tmp/x.log", cfg.File)

	// produção nunca escreve no console
	cfg, err = LoggerConfigFromEnv(envMap(map[string]string{"LOG_CONSOLE": "true", "ENV": "PROD"}))
	require.NoError(t, err)
	assert.True(t, cfg.JSON)
	assert.False(t, cfg.Console)

	_, err = LoggerConfigFromEnv(envMap(map[string]string{"LOG_LEVEL": "loud"}))
	assert.Error(t, err)
}

func TestNewLogger_Sinks(t *testing.T) {
	var file, console bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: zap.WarnLevel, JSON: true}, &file, &console)

	logger.Info("ignorado")
	logger.Warn("gravado", zap.String("model", "gemini-2.5-pro"))
	require.NoError(t, logger.Sync())

	assert.NotContains(t, file.String(), "ignorado")
	assert.Contains(t, file.String(), `"msg":"gravado"`)
	assert.Contains(t, file.String(), `"model":"gemini-2.5-pro"`)
	assert.Empty(t, console.String())

	file.Reset()
	logger = NewLogger(LoggerConfig{Level: zap.InfoLevel, Console: true}, &file, &console)
	logger.Info("nos dois")
	assert.Contains(t, file.String(), "nos dois")
	assert.Contains(t, console.String(), "nos dois")
}

func TestInitializeLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	logger, err := InitializeLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	logger.Warn("hello file")
	_ = logger.Sync()
	assert.FileExists(t, path)
}
