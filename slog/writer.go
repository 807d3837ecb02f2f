package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingWriter implements distill.ResultWriter.
var _ distill.ResultWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a ResultWriter with logging. name identifies the
// destination in log lines.
type LoggingWriter struct {
	next   distill.ResultWriter
	name   string
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next distill.ResultWriter, name string, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, name: name, logger: logger}
}

// WriteResult delegates to the wrapped writer and logs the operation.
func (w *LoggingWriter) WriteResult(ctx context.Context, res *distill.Result) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write result",
			"writer", w.name,
			"url", res.URL,
			"mode", res.Mode,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteResult(ctx, res)
}
