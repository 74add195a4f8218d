package loadstate

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyManifest_MergesEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"keys/menu.yaml": &fstest.MapFile{Data: []byte(
			"keys:\n" +
				"  hero_skin: sprites/hero_red.yaml\n" +
				"  boss_theme: audio/boss.ogg\n",
		)},
	}
	keys := NewDynamicKeys()
	keys.Set("hero_skin", "sprites/hero_old.yaml")

	n, err := LoadKeyManifest(fsys, "keys/menu.yaml", keys)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	path, err := keys.Get("hero_skin")
	require.NoError(t, err)
	assert.Equal(t, "sprites/hero_red.yaml", path, "manifest entries overwrite existing keys")

	path, err = keys.Get("boss_theme")
	require.NoError(t, err)
	assert.Equal(t, "audio/boss.ogg", path)
}

func TestLoadKeyManifest_MissingFile(t *testing.T) {
	keys := NewDynamicKeys()

	_, err := LoadKeyManifest(fstest.MapFS{}, "keys/none.yaml", keys)
	require.Error(t, err)
	assert.Equal(t, 0, keys.Len())
}

func TestLoadKeyManifest_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"keys/bad.yaml": &fstest.MapFile{Data: []byte("keys: [not, a, map]")},
	}
	_, err := LoadKeyManifest(fsys, "keys/bad.yaml", NewDynamicKeys())
	assert.Error(t, err)
}

func TestLoadKeyManifest_EmptyPathRejected(t *testing.T) {
	fsys := fstest.MapFS{
		"keys/empty.yaml": &fstest.MapFile{Data: []byte("keys:\n  ghost: \"\"\n")},
	}
	_, err := LoadKeyManifest(fsys, "keys/empty.yaml", NewDynamicKeys())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestLoadKeyManifest_RejectedManifestLeavesKeysUntouched(t *testing.T) {
	// Many valid entries around one bad one, so the outcome does not depend
	// on which entry map iteration visits first.
	var body strings.Builder
	body.WriteString("keys:\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&body, "  skin_%02d: sprites/skin_%02d.yaml\n", i, i)
	}
	body.WriteString("  ghost: \"\"\n")
	fsys := fstest.MapFS{
		"keys/partial.yaml": &fstest.MapFile{Data: []byte(body.String())},
	}

	keys := NewDynamicKeys()
	keys.Set("hero_skin", "sprites/hero_old.yaml")

	n, err := LoadKeyManifest(fsys, "keys/partial.yaml", keys)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, keys.Len(), "rejected manifest must not merge any entry")

	path, err := keys.Get("hero_skin")
	require.NoError(t, err)
	assert.Equal(t, "sprites/hero_old.yaml", path)
}
