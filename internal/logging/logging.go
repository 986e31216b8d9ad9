package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log lines go
type Options struct {
	Dir     string // log directory, file logging is off when empty
	Level   string // debug, info, warn, error
	Console bool   // also write to stderr
}

// New builds a sugared logger with a rotating JSON file core and an optional
// console core. With neither configured it returns a no-op logger.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := zap.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, "taskman.log"),
				MaxSize:    10, // MB
				MaxBackups: 5,
				MaxAge:     30, // days
			}),
			level,
		))
	}

	if opts.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			zap.DebugLevel,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop().Sugar(), nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return logger.Sugar(), nil
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
