package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResources_PublishReplaces(t *testing.T) {
	res := NewResources()
	res.Publish("volume", 3)
	res.Publish("volume", 7)

	v, ok := res.Lookup("volume")
	require.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, res.Len())
}

func TestResources_Remove(t *testing.T) {
	res := NewResources()
	res.Publish("volume", 3)
	res.Remove("volume")

	_, ok := res.Lookup("volume")
	assert.False(t, ok)
	assert.Equal(t, 0, res.Len())
}

func TestRes_TypedLookup(t *testing.T) {
	type audioSettings struct{ Volume int }
	res := NewResources()
	res.Publish("audio", &audioSettings{Volume: 5})

	got, ok := Res[*audioSettings](res, "audio")
	require.True(t, ok)
	assert.Equal(t, 5, got.Volume)

	_, ok = Res[string](res, "audio")
	assert.False(t, ok, "type mismatch reports absence")

	_, ok = Res[*audioSettings](res, "missing")
	assert.False(t, ok)
}
