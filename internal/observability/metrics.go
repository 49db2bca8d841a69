package observability

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RequestRecord captures the terminal state of a single chat request.
type RequestRecord struct {
	Timestamp    time.Time
	ClientIP     string
	Success      bool
	Elapsed      time.Duration
	MessageCount int
}

// MetricsRecorder emits one record per request reaching a terminal state.
type MetricsRecorder interface {
	Record(ctx context.Context, rec RequestRecord)
}

// LogMetrics implements MetricsRecorder on top of the process logger.
type LogMetrics struct{}

// NewLogMetrics creates a log-backed metrics recorder (DI constructor).
func NewLogMetrics() *LogMetrics {
	return &LogMetrics{}
}

// Record emits a single structured line for the request. It must never fail or
// block the response path, so panics are swallowed here.
func (m *LogMetrics) Record(ctx context.Context, rec RequestRecord) {
	defer func() {
		_ = recover()
	}()

	FromContext(ctx).Info("chat request completed",
		zap.Time("timestamp", rec.Timestamp),
		zap.String("client_ip", rec.ClientIP),
		zap.Bool("success", rec.Success),
		zap.Duration("elapsed", rec.Elapsed),
		zap.Int("message_count", rec.MessageCount),
	)
}
