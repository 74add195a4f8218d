package app

// States owns the host state machine's current value and the single pending
// next value. The loading driver or application code requests a transition;
// the schedule applies it at the next tick boundary. The last request before
// the boundary wins.
type States[S comparable] struct {
	current S
	pending *S
}

func NewStates[S comparable](initial S) *States[S] {
	return &States[S]{current: initial}
}

func (s *States[S]) Current() S {
	return s.current
}

// RequestTransition stages next to be applied at the next tick boundary.
func (s *States[S]) RequestTransition(next S) {
	s.pending = &next
}

// Pending returns the staged next state, if any.
func (s *States[S]) Pending() (S, bool) {
	if s.pending == nil {
		var zero S
		return zero, false
	}
	return *s.pending, true
}

// Apply consumes the pending state and reports the edge it took. Requesting
// the current state again still counts as a switch: exit and enter hooks
// run, which is how a state is deliberately restarted.
func (s *States[S]) Apply() (from, to S, switched bool) {
	if s.pending == nil {
		return s.current, s.current, false
	}
	from = s.current
	s.current = *s.pending
	s.pending = nil
	return from, s.current, true
}
