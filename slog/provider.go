package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingProvider implements distill.SessionProvider.
var _ distill.SessionProvider = (*LoggingProvider)(nil)

// LoggingProvider wraps a SessionProvider with debug logging of session
// lifetimes.
type LoggingProvider struct {
	next   distill.SessionProvider
	logger *slog.Logger
}

// NewLoggingProvider creates a new LoggingProvider.
func NewLoggingProvider(next distill.SessionProvider, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{next: next, logger: logger}
}

// Acquire logs the wait for a session and wraps it to log its close.
func (p *LoggingProvider) Acquire(ctx context.Context) (s distill.Session, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("session acquire",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	s, err = p.next.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{Session: s, logger: p.logger, opened: time.Now()}, nil
}

type loggingSession struct {
	distill.Session
	logger *slog.Logger
	opened time.Time
}

func (s *loggingSession) Close() (err error) {
	defer func() {
		s.logger.Debug("session close",
			"lifetime", time.Since(s.opened),
			"err", err,
		)
	}()
	return s.Session.Close()
}
