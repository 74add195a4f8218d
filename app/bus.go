package app

import (
	"reflect"
	"sync"
	"time"
)

// Bus is a double-buffered event bus. Events emitted during tick N become
// readable in tick N+1, after EventPumpSystem swaps the buffers. Readers
// either Subscribe a handler or Drain the front buffer directly.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer (readable next tick).
func Emit[T any](b *Bus, event T) {
	t := typeKey[T]()
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler invoked by DispatchAll for every
// front-buffer event of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeKey[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Drain returns this tick's events of type T without consuming them for
// other readers. Events stay in the front buffer until the next swap.
func Drain[T any](b *Bus) []T {
	raw := b.front[typeKey[T]()]
	if len(raw) == 0 {
		return nil
	}
	out := make([]T, len(raw))
	for i, ev := range raw {
		out[i] = ev.(T)
	}
	return out
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for t, events := range b.front {
		for _, ev := range events {
			for _, h := range b.handlers[t] {
				h.(func(any))(ev)
			}
		}
	}
}

// EventPumpSystem swaps and dispatches a Bus at the start of every tick.
type EventPumpSystem struct {
	bus *Bus
}

func NewEventPumpSystem(bus *Bus) *EventPumpSystem {
	return &EventPumpSystem{bus: bus}
}

func (s *EventPumpSystem) Phase() Phase {
	return PhaseEvents
}

func (s *EventPumpSystem) Update(time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
