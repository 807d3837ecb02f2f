package mock

import "github.com/fwojciec/distill"

var _ distill.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of distill.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) (string, error)
}

func (s *Sanitizer) Sanitize(html string) (string, error) {
	return s.SanitizeFn(html)
}
