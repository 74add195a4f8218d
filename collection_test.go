package loadstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSet_StartResolvesStaticAndKeyed(t *testing.T) {
	engine := newFakeEngine()
	keys := NewDynamicKeys()
	keys.Set("hero_skin", "sprites/hero_red.png")

	fields := NewFieldSet(
		Static("sprites/base.png"),
		Keyed("hero_skin"),
	)
	handles, err := fields.Start(keys, engine)
	require.NoError(t, err)
	assert.Len(t, handles, 2)
	assert.True(t, engine.issued("sprites/base.png"))
	assert.True(t, engine.issued("sprites/hero_red.png"))

	h0, ok := fields.Handle(0)
	require.True(t, ok)
	h1, ok := fields.Handle(1)
	require.True(t, ok)
	assert.NotEqual(t, h0, h1)
}

func TestFieldSet_OptionalUnsetLeavesGap(t *testing.T) {
	engine := newFakeEngine()
	keys := NewDynamicKeys()

	fields := NewFieldSet(
		Static("base.png"),
		OptionalKeyed("overlay"),
		Static("tail.png"),
	)
	handles, err := fields.Start(keys, engine)
	require.NoError(t, err)
	assert.Len(t, handles, 2, "skipped field must not appear in the issued set")

	_, ok := fields.Handle(1)
	assert.False(t, ok)
	_, ok = fields.Handle(2)
	assert.True(t, ok, "fields after the gap keep their index")
	assert.Equal(t, 3, fields.Len())
}

func TestFieldSet_MissingKeyStartsNothing(t *testing.T) {
	engine := newFakeEngine()
	keys := NewDynamicKeys()

	fields := NewFieldSet(
		Static("a.png"),
		Static("b.png"),
		Keyed("unset"),
	)
	_, err := fields.Start(keys, engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)

	// resolution runs before any load is issued
	assert.False(t, engine.issued("a.png"))
	assert.False(t, engine.issued("b.png"))

	_, ok := fields.Handle(0)
	assert.False(t, ok)
}

func TestFieldSet_HandleOutOfRange(t *testing.T) {
	fields := NewFieldSet(Static("a.png"))

	_, ok := fields.Handle(-1)
	assert.False(t, ok)
	_, ok = fields.Handle(1)
	assert.False(t, ok)
	_, ok = fields.Handle(0)
	assert.False(t, ok, "no handle before Start runs")
}
