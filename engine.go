package distill

// EngineState describes the rendering engine behind a SessionProvider.
type EngineState string

// EngineState constants.
const (
	// EngineRunning means the engine is connected and accepting sessions.
	EngineRunning EngineState = "running"

	// EngineIdle means the engine was torn down after an idle period and
	// relaunches on the next Acquire.
	EngineIdle EngineState = "idle"

	// EngineCrashed means the engine stopped responding. Acquire fails
	// until Restart is called.
	EngineCrashed EngineState = "crashed"

	// EngineClosed means the provider was closed.
	EngineClosed EngineState = "closed"
)

// Available reports whether the engine can serve sessions now or on demand.
func (s EngineState) Available() bool {
	return s != EngineCrashed && s != EngineClosed
}

// EngineStats is a snapshot of engine activity.
type EngineStats struct {
	State         EngineState `json:"state"`
	OpenSessions  int         `json:"openSessions"`
	TotalSessions int64       `json:"totalSessions"`
	Launches      int64       `json:"launches"`
}

// Engine reports on and controls the rendering engine. Implementations must
// be safe for concurrent use.
type Engine interface {
	// Stats returns a snapshot of engine activity.
	Stats() EngineStats

	// Restart relaunches the engine, clearing a crashed or idle state.
	// Sessions of the old engine are invalidated. It fails with EENGINE
	// once the provider is closed.
	Restart() error
}
