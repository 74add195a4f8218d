package loadstate

// PhaseBuilder accumulates the configuration for one loading phase: the
// state to continue to, ordered collection attachments, ordered post-load
// initializers, and bulk dynamic keys. Register installs the entry into a
// driver's phase table. The whole surface is exercised at application
// start-up, not at runtime.
type PhaseBuilder[S comparable] struct {
	phase        S
	next         *S
	collections  []Collection
	initializers []Initializer
	keys         map[string]string
}

// NewPhase begins configuration for phase.
func NewPhase[S comparable](phase S) *PhaseBuilder[S] {
	return &PhaseBuilder[S]{phase: phase, keys: make(map[string]string)}
}

// ContinueTo sets the state to transition to once the phase completes.
// Without it the phase completes in place and never transitions.
func (b *PhaseBuilder[S]) ContinueTo(next S) *PhaseBuilder[S] {
	b.next = &next
	return b
}

// WithCollection attaches a collection. Attachment order is start order.
func (b *PhaseBuilder[S]) WithCollection(c Collection) *PhaseBuilder[S] {
	b.collections = append(b.collections, c)
	return b
}

// WithKeys stages a key→path map to be merged into the driver's dynamic key
// registry at registration time. Later entries overwrite earlier ones.
func (b *PhaseBuilder[S]) WithKeys(keys map[string]string) *PhaseBuilder[S] {
	for k, v := range keys {
		b.keys[k] = v
	}
	return b
}

// InitResource appends a post-load initializer.
func (b *PhaseBuilder[S]) InitResource(fn Initializer) *PhaseBuilder[S] {
	b.initializers = append(b.initializers, fn)
	return b
}

// Register installs or replaces the phase entry in d's configuration table
// and merges staged keys into its registry. Re-registering a phase
// overwrites its next state and attachments and resets the outstanding
// count to zero; re-registration of a revisited phase is a deliberate use
// case, not an error.
func (b *PhaseBuilder[S]) Register(d *Driver[S]) {
	d.register(b.phase, b.next, b.collections, b.initializers, b.keys)
}
