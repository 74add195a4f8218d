package app

// CollectionReady is emitted when one collection of a loading phase has all
// its assets loaded and its Finish step has run.
type CollectionReady[S comparable] struct {
	Phase      S
	Collection string
}

// PhaseComplete is emitted exactly once when a loading phase has no
// outstanding work left. Token identifies the phase activation.
type PhaseComplete[S comparable] struct {
	Phase S
	Token string
}

// LoadingObserver forwards loading lifecycle notifications onto a Bus as
// CollectionReady and PhaseComplete events. It satisfies the observer
// contract of the loadstate driver.
type LoadingObserver[S comparable] struct {
	bus *Bus
}

func NewLoadingObserver[S comparable](bus *Bus) *LoadingObserver[S] {
	return &LoadingObserver[S]{bus: bus}
}

func (o *LoadingObserver[S]) CollectionFinished(phase S, collection string) {
	Emit(o.bus, CollectionReady[S]{Phase: phase, Collection: collection})
}

func (o *LoadingObserver[S]) PhaseCompleted(phase S, token string) {
	Emit(o.bus, PhaseComplete[S]{Phase: phase, Token: token})
}
