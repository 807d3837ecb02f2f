package mock

import "github.com/fwojciec/distill"

var _ distill.Engine = (*Engine)(nil)

// Engine is a mock implementation of distill.Engine.
type Engine struct {
	StatsFn   func() distill.EngineStats
	RestartFn func() error
}

func (e *Engine) Stats() distill.EngineStats {
	return e.StatsFn()
}

func (e *Engine) Restart() error {
	return e.RestartFn()
}
