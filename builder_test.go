package loadstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseBuilder_WithKeysMergedAtRegister(t *testing.T) {
	engine := newFakeEngine()
	driver := NewDriver[testState](engine, nil, nil)

	NewPhase(stateLoading).
		ContinueTo(stateMenu).
		WithKeys(map[string]string{
			"hero_skin": "sprites/hero_red.png",
			"theme":     "audio/day.ogg",
		}).
		WithKeys(map[string]string{
			"theme": "audio/night.ogg",
		}).
		Register(driver)

	path, err := driver.Keys().Get("hero_skin")
	require.NoError(t, err)
	assert.Equal(t, "sprites/hero_red.png", path)

	path, err = driver.Keys().Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "audio/night.ogg", path, "later WithKeys entries overwrite earlier ones")
}

func TestPhaseBuilder_ReRegisterResetsActivation(t *testing.T) {
	engine := newFakeEngine()
	driver := NewDriver[testState](engine, nil, nil)

	NewPhase(stateLoading).
		ContinueTo(stateMenu).
		WithCollection(newTestCollection("a", Static("a.png"))).
		WithCollection(newTestCollection("b", Static("b.png"))).
		Register(driver)

	require.NoError(t, driver.Enter(stateLoading))
	require.Equal(t, 2, driver.Snapshot(stateLoading).Outstanding)

	// re-registration wipes the live activation; counting restarts at entry
	NewPhase(stateLoading).
		ContinueTo(statePlay).
		WithCollection(newTestCollection("c", Static("c.png"))).
		Register(driver)

	snap := driver.Snapshot(stateLoading)
	assert.False(t, snap.Active)
	assert.Equal(t, 0, snap.Outstanding)

	require.NoError(t, driver.Enter(stateLoading))
	assert.Equal(t, 1, driver.Snapshot(stateLoading).Outstanding)
}

func TestPhaseBuilder_NoContinueTo_CompletesInPlace(t *testing.T) {
	engine := newFakeEngine()
	driver := NewDriver[testState](engine, nil, nil)
	states := &recordingStates[testState]{}

	c := newTestCollection("sprites", Static("a.png"))
	NewPhase(stateLoading).WithCollection(c).Register(driver)

	require.NoError(t, driver.Enter(stateLoading))
	engine.markLoaded("a.png")
	driver.Poll(stateLoading, states)

	assert.Empty(t, states.requests, "no next state configured, no transition")
	assert.True(t, driver.Snapshot(stateLoading).Completed)
	assert.Equal(t, 1, c.finished)
}
