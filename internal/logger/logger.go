package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field aliases so callers don't import zap directly.
type Field = zapcore.Field

var (
	Int     = zap.Int
	Int64   = zap.Int64
	String  = zap.String
	Float64 = zap.Float64
	Error   = zap.Error
	Any     = zap.Any
)

// Logger is the logging contract handed to services.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type logger struct {
	zap *zap.Logger
}

func (l logger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l logger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l logger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l logger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// New builds a namespaced logger. Level accepts zap level strings
// ("debug", "info", ...); unknown values fall back to info.
func New(namespace, level string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]interface{}{"namespace": namespace}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger{zap: l}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return logger{zap: zap.NewNop()}
}
