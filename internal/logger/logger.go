package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging facade consumed across the harvester. The *Obj
// variants attach an event name and a structured payload to the entry.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	DebugObj(msg, event string, obj map[string]any)
	InfoObj(msg, event string, obj map[string]any)
	WarnObj(msg, event string, obj map[string]any)
	ErrorObj(msg, event string, obj map[string]any)
}

// zapLogger adapts a zap.Logger to the Logger interface.
type zapLogger struct {
	l *zap.Logger
}

// New builds a production console logger. Debug-level entries are emitted
// only when debug is true.
func New(debug bool) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

func (z *zapLogger) Debug(msg string) { z.l.Debug(msg) }
func (z *zapLogger) Info(msg string)  { z.l.Info(msg) }
func (z *zapLogger) Warn(msg string)  { z.l.Warn(msg) }
func (z *zapLogger) Error(msg string) { z.l.Error(msg) }

func (z *zapLogger) DebugObj(msg, event string, obj map[string]any) {
	z.l.Debug(msg, objFields(event, obj)...)
}

func (z *zapLogger) InfoObj(msg, event string, obj map[string]any) {
	z.l.Info(msg, objFields(event, obj)...)
}

func (z *zapLogger) WarnObj(msg, event string, obj map[string]any) {
	z.l.Warn(msg, objFields(event, obj)...)
}

func (z *zapLogger) ErrorObj(msg, event string, obj map[string]any) {
	z.l.Error(msg, objFields(event, obj)...)
}

func objFields(event string, obj map[string]any) []zap.Field {
	fields := make([]zap.Field, 0, len(obj)+1)
	fields = append(fields, zap.String("event", event))
	for k, v := range obj {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}

// NopLogger discards every entry. It is the default for nil collaborators
// and the logger of choice in tests.
type NopLogger struct{}

func (NopLogger) Debug(string) {}
func (NopLogger) Info(string)  {}
func (NopLogger) Warn(string)  {}
func (NopLogger) Error(string) {}

func (NopLogger) DebugObj(string, string, map[string]any) {}
func (NopLogger) InfoObj(string, string, map[string]any)  {}
func (NopLogger) WarnObj(string, string, map[string]any)  {}
func (NopLogger) ErrorObj(string, string, map[string]any) {}
