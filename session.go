package distill

import "context"

// Session is a single navigable page context bound to one request.
// A Session must never be shared across requests.
type Session interface {
	// Navigate loads the URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Evaluate runs script against the current document and returns the
	// resulting value decoded from JSON (string, number, bool, nil,
	// map[string]any, []any). When awaitPromise is true a returned promise
	// is awaited. A script that throws returns EEVALUATION.
	Evaluate(ctx context.Context, script string, awaitPromise bool) (any, error)

	// Close releases the session. It is safe to call more than once.
	Close() error
}

// SessionProvider hands out isolated sessions backed by one shared engine.
// Implementations must be safe for concurrent use.
type SessionProvider interface {
	// Acquire returns a fresh session. It fails with EENGINE when no usable
	// engine is running and ESESSION when the engine rejects the new page.
	Acquire(ctx context.Context) (Session, error)
}
