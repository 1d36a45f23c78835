package model

import "go.uber.org/zap"

// Logger is the structured, leveled, thread-safe collaborator every
// component accepts by injection rather than reaching for a package-global
// logger. The core emits Info for lifecycle events, Warn for recoverable
// failures, and Error for classified errors; it never logs at a fatal level,
// since the core does not terminate the process on its own.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}
