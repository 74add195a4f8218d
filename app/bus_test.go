package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct{ n int }

func TestBus_EmitVisibleAfterSwap(t *testing.T) {
	bus := NewBus()
	var got []int
	Subscribe(bus, func(ev pingEvent) { got = append(got, ev.n) })

	Emit(bus, pingEvent{n: 1})
	bus.DispatchAll()
	assert.Empty(t, got, "same-tick events are not visible before the swap")

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []int{1}, got)
}

func TestBus_SwapClearsPreviousTick(t *testing.T) {
	bus := NewBus()
	var got []int
	Subscribe(bus, func(ev pingEvent) { got = append(got, ev.n) })

	Emit(bus, pingEvent{n: 1})
	bus.SwapBuffers()
	bus.DispatchAll()

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []int{1}, got, "events are delivered for exactly one tick")
}

func TestBus_DrainReturnsTypedEvents(t *testing.T) {
	bus := NewBus()
	Emit(bus, pingEvent{n: 1})
	Emit(bus, pingEvent{n: 2})
	bus.SwapBuffers()

	events := Drain[pingEvent](bus)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].n)
	assert.Equal(t, 2, events[1].n)

	assert.Len(t, Drain[pingEvent](bus), 2, "Drain does not consume events")
	assert.Nil(t, Drain[int](bus), "no events of an unrelated type")
}

func TestEventPumpSystem_SwapsAndDispatches(t *testing.T) {
	bus := NewBus()
	var got []int
	Subscribe(bus, func(ev pingEvent) { got = append(got, ev.n) })
	pump := NewEventPumpSystem(bus)
	require.Equal(t, PhaseEvents, pump.Phase())

	Emit(bus, pingEvent{n: 7})
	pump.Update(time.Millisecond)
	assert.Equal(t, []int{7}, got)
}

func TestLoadingObserver_EmitsOntoBus(t *testing.T) {
	bus := NewBus()
	obs := NewLoadingObserver[demoState](bus)

	obs.CollectionFinished(stateLoading, "ui")
	obs.PhaseCompleted(stateLoading, "tok-1")
	bus.SwapBuffers()

	ready := Drain[CollectionReady[demoState]](bus)
	require.Len(t, ready, 1)
	assert.Equal(t, stateLoading, ready[0].Phase)
	assert.Equal(t, "ui", ready[0].Collection)

	complete := Drain[PhaseComplete[demoState]](bus)
	require.Len(t, complete, 1)
	assert.Equal(t, "tok-1", complete[0].Token)
}
