package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var (
	_ distill.Pipeline     = (*Pipeline)(nil)
	_ distill.ResultWriter = (*ResultWriter)(nil)
)

// Pipeline is a mock implementation of distill.Pipeline.
type Pipeline struct {
	ExtractFn func(ctx context.Context, req distill.Request) (*distill.Result, error)
}

func (p *Pipeline) Extract(ctx context.Context, req distill.Request) (*distill.Result, error) {
	return p.ExtractFn(ctx, req)
}

// ResultWriter is a mock implementation of distill.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, res *distill.Result) error
}

func (w *ResultWriter) WriteResult(ctx context.Context, res *distill.Result) error {
	return w.WriteResultFn(ctx, res)
}
