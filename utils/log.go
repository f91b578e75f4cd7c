/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/diillson/geminiapp/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig descreve para onde e em que formato os logs vão.
type LoggerConfig struct {
	Level     zapcore.Level
	JSON      bool   // ENV=prod
	File      string // LOG_FILE
	MaxSizeMB int    // LOG_MAX_SIZE convertido
	Console   bool   // LOG_CONSOLE; espelha em Stderr
}

// LoggerConfigFromEnv lê LOG_LEVEL, ENV, LOG_FILE, LOG_MAX_SIZE e LOG_CONSOLE.
func LoggerConfigFromEnv(getenv func(string) string) (LoggerConfig, error) {
	level, err := parseLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return LoggerConfig{}, err
	}
	cfg := LoggerConfig{
		Level:     level,
		JSON:      strings.EqualFold(getenv("ENV"), "prod"),
		File:      getenv("LOG_FILE"),
		MaxSizeMB: maxLogSizeMB(getenv("LOG_MAX_SIZE")),
	}
	if cfg.File == "" {
		cfg.File = config.DefaultLogFile
	}
	// Em produção o console fica sempre de fora
	if console, _ := strconv.ParseBool(getenv("LOG_CONSOLE")); console && !cfg.JSON {
		cfg.Console = true
	}
	return cfg, nil
}

// InitializeLogger monta o logger a partir do ambiente.
// Por padrão só grava no arquivo, para não misturar log com o menu.
func InitializeLogger() (*zap.Logger, error) {
	cfg, err := LoggerConfigFromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: 3,
		MaxAge:     28, // dias
		Compress:   true,
	}
	return NewLogger(cfg, rotator, os.Stderr), nil
}

// NewLogger cria o logger gravando em file e, se cfg.Console, também em console.
func NewLogger(cfg LoggerConfig, file io.Writer, console io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.AddSync(file)
	if cfg.Console && console != nil {
		sink = zapcore.NewMultiWriteSyncer(zapcore.AddSync(console), sink)
	}
	return zap.New(zapcore.NewCore(encoder, sink, cfg.Level), zap.AddCaller())
}

// parseLevel converte LOG_LEVEL em zapcore.Level; vazio vira Info.
func parseLevel(raw string) (zapcore.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zap.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		return zap.InfoLevel, fmt.Errorf("LOG_LEVEL inválido: %q", raw)
	}
	return level, nil
}

// maxLogSizeMB converte "50MB", "1GB" etc. em megabytes; abaixo de 1MB usa o padrão.
func maxLogSizeMB(raw string) int {
	if raw == "" {
		return config.DefaultMaxLogSize
	}
	size, err := parseSize(raw)
	if err != nil || size < 1<<20 {
		return config.DefaultMaxLogSize
	}
	return int(size >> 20)
}

var sizeUnits = []struct {
	suffix string
	shift  uint
}{
	{"KB", 10},
	{"MB", 20},
	{"GB", 30},
	{"B", 0},
}

// parseSize converte uma string de tamanho legível (como "50MB", "100KB", "1GB") para bytes.
func parseSize(sizeStr string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(sizeStr))
	var shift uint
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			s, shift = strings.TrimSuffix(s, u.suffix), u.shift
			break
		}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("tamanho inválido: %s", sizeStr)
	}
	return n << shift, nil
}
