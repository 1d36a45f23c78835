package logging

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/model"
)

// PerformanceTracking is the opaque timed-operation handle spec.md §3 places
// out of the core's own scope, but references as something the logging
// collaborator hands back for correlating a span across log lines. It is
// minted as a UUID rather than a core-owned counter, so the core never needs
// to know how the logging collaborator indexes spans internally.
type PerformanceTracking struct {
	token     string
	operation string
	startedAt time.Time
}

// StartTracking begins a span for operation and returns its handle.
func StartTracking(operation string) PerformanceTracking {
	return PerformanceTracking{
		token:     uuid.NewString(),
		operation: operation,
		startedAt: time.Now(),
	}
}

// Token returns the opaque correlation token for this span.
func (p PerformanceTracking) Token() string {
	return p.token
}

// Finish logs the span's duration against logger at Info level, tagging
// every line with the same token so a log viewer can group them.
func (p PerformanceTracking) Finish(logger model.Logger) {
	logger.Info("operation completed",
		zap.String("operation", p.operation),
		zap.String("tracking_token", p.token),
		zap.Duration("duration", time.Since(p.startedAt)),
	)
}
