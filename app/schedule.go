// Package app is the minimal tick-driven runtime the loading driver plugs
// into: a global state machine with deferred transitions, a phased system
// schedule with per-state hooks, a name-keyed resource store, and a
// double-buffered event bus.
package app

import (
	"sort"
	"time"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents     Phase = iota // 0: swap + dispatch last tick's events
	PhasePreUpdate               // 1: asset polling, input
	PhaseUpdate                  // 2: application logic
	PhasePostUpdate              // 3: derived state, display
	PhaseCleanup                 // 4: end-of-tick bookkeeping
)

// System is the interface every per-tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Schedule runs phased systems every tick and state-scoped hooks around
// them. The pending state switch is applied at tick start: exit hooks of the
// old state run, then enter hooks of the new one. Enter hooks of the initial
// state run on the first tick. State-scoped update hooks run after the
// phased systems.
type Schedule[S comparable] struct {
	states  *States[S]
	systems []System
	sorted  bool
	started bool

	onEnter  map[S][]func()
	onUpdate map[S][]func()
	onExit   map[S][]func()
}

func NewSchedule[S comparable](states *States[S]) *Schedule[S] {
	return &Schedule[S]{
		states:   states,
		systems:  make([]System, 0, 16),
		onEnter:  make(map[S][]func()),
		onUpdate: make(map[S][]func()),
		onExit:   make(map[S][]func()),
	}
}

// States returns the state machine this schedule applies.
func (sch *Schedule[S]) States() *States[S] {
	return sch.states
}

func (sch *Schedule[S]) Register(s System) {
	sch.systems = append(sch.systems, s)
	sch.sorted = false
}

// OnEnter registers fn to run when state becomes current, in registration
// order.
func (sch *Schedule[S]) OnEnter(state S, fn func()) {
	sch.onEnter[state] = append(sch.onEnter[state], fn)
}

// OnUpdate registers fn to run once per tick while state is current.
func (sch *Schedule[S]) OnUpdate(state S, fn func()) {
	sch.onUpdate[state] = append(sch.onUpdate[state], fn)
}

// OnExit registers fn to run when state stops being current.
func (sch *Schedule[S]) OnExit(state S, fn func()) {
	sch.onExit[state] = append(sch.onExit[state], fn)
}

func (sch *Schedule[S]) Tick(dt time.Duration) {
	if !sch.started {
		sch.started = true
		for _, fn := range sch.onEnter[sch.states.Current()] {
			fn()
		}
	}
	if from, to, switched := sch.states.Apply(); switched {
		for _, fn := range sch.onExit[from] {
			fn()
		}
		for _, fn := range sch.onEnter[to] {
			fn()
		}
	}
	sch.ensureSorted()
	for _, s := range sch.systems {
		s.Update(dt)
	}
	for _, fn := range sch.onUpdate[sch.states.Current()] {
		fn()
	}
}

func (sch *Schedule[S]) ensureSorted() {
	if !sch.sorted {
		sort.SliceStable(sch.systems, func(i, j int) bool {
			return sch.systems[i].Phase() < sch.systems[j].Phase()
		})
		sch.sorted = true
	}
}
