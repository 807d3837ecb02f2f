package rod

import (
	"context"
	"sync"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Ensure Session implements distill.Session at compile time.
var _ distill.Session = (*Session)(nil)

// Session is one browser page bound to a single request.
type Session struct {
	page    *rod.Page
	release func()

	once     sync.Once
	closeErr error
}

func newSession(page *rod.Page, release func()) *Session {
	return &Session{page: page, release: release}
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return classify(ctx, err, distill.ENAVIGATION, "navigating to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return classify(ctx, err, distill.ENAVIGATION, "waiting for %s to load", url)
	}
	return nil
}

// Evaluate runs script in the page's global scope. Multi-statement sources
// are accepted as-is; the value of the last expression is returned by value.
func (s *Session) Evaluate(ctx context.Context, script string, awaitPromise bool) (any, error) {
	res, err := proto.RuntimeEvaluate{
		Expression:    script,
		ReturnByValue: true,
		AwaitPromise:  awaitPromise,
	}.Call(s.page.Context(ctx))
	if err != nil {
		return nil, classify(ctx, err, distill.EEVALUATION, "evaluating script")
	}
	if ex := res.ExceptionDetails; ex != nil {
		msg := ex.Text
		if ex.Exception != nil && ex.Exception.Description != "" {
			msg = ex.Exception.Description
		}
		return nil, distill.Errorf(distill.EEVALUATION, "script threw: %s", msg)
	}
	if res.Result == nil {
		return nil, nil
	}
	return decode(res.Result.Value), nil
}

// Close closes the page and releases the session. Close is safe to call
// multiple times; later calls return the first result.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closeErr = s.page.Close()
		s.release()
	})
	return s.closeErr
}

func decode(v gson.JSON) any {
	if v.Nil() {
		return nil
	}
	return v.Val()
}

func classify(ctx context.Context, err error, code string, format string, args ...any) error {
	if ctx.Err() != nil {
		return distill.WrapError(distill.ETIMEOUT, err, format, args...)
	}
	return distill.WrapError(code, err, format, args...)
}
