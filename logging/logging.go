// Package logging monta o logger zap dos binários: stderr e/ou arquivo com
// rotação (lumberjack), em JSON ou console.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"employee-gateway/config"
)

// New devolve o logger e a função que o encerra: Sync e fechamento do arquivo
// rotacionado, quando houver.
func New(cfg config.LogConfig, service string) (*zap.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		lvl, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	var (
		cores []zapcore.Core
		sink  *lumberjack.Logger
	)
	if cfg.Stderr || cfg.File == "" {
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
	}
	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		sink = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(sink), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).With(zap.String("service", service))
	closeFn := func() error {
		// Sync em stderr falha em alguns terminais; só o arquivo importa aqui.
		_ = log.Sync()
		if sink != nil {
			return sink.Close()
		}
		return nil
	}
	return log, closeFn, nil
}
