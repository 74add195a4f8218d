// Package loadstate drives asset loading for tick-based applications built
// around a global state machine. Collections of assets are registered against
// a loading phase; when the phase becomes current the driver starts every
// load, polls completion once per tick without blocking, and requests the
// configured state transition exactly once when the last collection finishes.
//
// The package performs no I/O itself. Asset loading is delegated to an Engine
// implementation (see the assetserver package) and state storage to the host
// runtime (see the app package). All driver entry points assume
// single-goroutine access from the tick loop, same as the rest of the host.
package loadstate

// Status is the engine-reported state of one asset load.
type Status uint8

const (
	StatusLoading Status = iota // in flight
	StatusLoaded                // decoded value available
	StatusFailed                // missing file or decode error; terminal
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Handle is an opaque reference to one asset load. Handles are minted by the
// engine; the driver only stores and queries them.
type Handle uint64

// Engine is the asset engine surface the driver consumes. Status must be safe
// to call concurrently with the engine's own load workers.
type Engine interface {
	IssueLoad(path string) (Handle, error)
	Status(h Handle) Status
}

// AssetReader is the optional wider engine surface a Collection's Finish may
// assert when it needs the decoded value behind a handle. The driver itself
// never reads asset values.
type AssetReader interface {
	Asset(h Handle) (any, bool)
}

// StateRequester is the slice of the host state machine the driver writes to.
// The driver calls RequestTransition at most once per phase activation; the
// runtime applies the switch at its own tick boundary.
type StateRequester[S comparable] interface {
	RequestTransition(next S)
}

// Resources receives finished collection values and initializer outputs.
// Publishing the same name again replaces the previous value.
type Resources interface {
	Publish(name string, value any)
	Lookup(name string) (any, bool)
}

// Progress is an optional per-tick progress collaborator. Track is fed once
// per poll for every collection still loading; PersistDoneTasks once when a
// collection completes. A nil Progress is a no-op.
type Progress interface {
	Track(total, done int)
	PersistDoneTasks(done int)
}

// Observer receives loading lifecycle notifications. Optional; used by the
// app package to forward completions onto its event bus.
type Observer[S comparable] interface {
	CollectionFinished(phase S, collection string)
	PhaseCompleted(phase S, token string)
}
