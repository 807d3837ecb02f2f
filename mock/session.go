package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var (
	_ distill.Session         = (*Session)(nil)
	_ distill.SessionProvider = (*SessionProvider)(nil)
)

// Session is a mock implementation of distill.Session.
type Session struct {
	NavigateFn func(ctx context.Context, url string) error
	EvaluateFn func(ctx context.Context, script string, awaitPromise bool) (any, error)
	CloseFn    func() error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.NavigateFn(ctx, url)
}

func (s *Session) Evaluate(ctx context.Context, script string, awaitPromise bool) (any, error) {
	return s.EvaluateFn(ctx, script, awaitPromise)
}

func (s *Session) Close() error {
	return s.CloseFn()
}

// SessionProvider is a mock implementation of distill.SessionProvider.
type SessionProvider struct {
	AcquireFn func(ctx context.Context) (distill.Session, error)
}

func (p *SessionProvider) Acquire(ctx context.Context) (distill.Session, error) {
	return p.AcquireFn(ctx)
}
