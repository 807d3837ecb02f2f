// Package slog provides logging decorators for distill services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingPipeline implements distill.Pipeline.
var _ distill.Pipeline = (*LoggingPipeline)(nil)

// LoggingPipeline wraps a Pipeline with one log line per request.
type LoggingPipeline struct {
	next   distill.Pipeline
	logger *slog.Logger
}

// NewLoggingPipeline creates a new LoggingPipeline.
func NewLoggingPipeline(next distill.Pipeline, logger *slog.Logger) *LoggingPipeline {
	return &LoggingPipeline{next: next, logger: logger}
}

// Extract delegates to the wrapped pipeline and logs the outcome.
func (p *LoggingPipeline) Extract(ctx context.Context, req distill.Request) (res *distill.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.URL,
			"mode", req.Mode,
			"duration", time.Since(begin),
		}
		if err != nil {
			p.logger.Error("extract", append(attrs, "code", distill.ErrorCode(err), "err", err)...)
			return
		}
		p.logger.Info("extract", append(attrs,
			"title", res.Title,
			"bytes", len(res.Markdown),
			"warnings", len(res.Warnings),
		)...)
	}(time.Now())
	return p.next.Extract(ctx, req)
}
