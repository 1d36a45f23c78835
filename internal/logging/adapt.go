package logging

import (
	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/model"
)

// Adapt wraps a *zap.Logger as a model.Logger. A nil logger becomes a no-op
// logger rather than panicking the first time a component logs.
func Adapt(l *zap.Logger) model.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{l: l}
}

type zapLogger struct {
	l *zap.Logger
}

func (z zapLogger) Info(msg string, fields ...zap.Field)  { z.l.Info(msg, fields...) }
func (z zapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
func (z zapLogger) Error(msg string, fields ...zap.Field) { z.l.Error(msg, fields...) }
