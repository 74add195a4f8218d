package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "assetctl", cmd.Use)

	for _, name := range []string{"pack", "verify", "keys"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
}

func TestPackThenVerify(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets/data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets/data/motd.txt"), []byte("welcome"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets/hero.png"), []byte{1, 2, 3}, 0o644))
	packPath := filepath.Join(dir, "game.pack")

	out, err := execute(t, "pack", filepath.Join(dir, "assets"), packPath)
	require.NoError(t, err)
	assert.Contains(t, out, "packed 2 assets")

	out, err = execute(t, "verify", packPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 assets ok")
}

func TestPack_MissingDir(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "pack", filepath.Join(dir, "nope"), filepath.Join(dir, "out.pack"))
	assert.Error(t, err)
}

func TestVerify_MissingPack(t *testing.T) {
	_, err := execute(t, "verify", filepath.Join(t.TempDir(), "nope.pack"))
	assert.Error(t, err)
}

func TestKeys_ValidManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("keys:\n  hero_skin: sprites/hero_red.yaml\n  boss_theme: audio/boss.ogg\n"), 0o644))

	out, err := execute(t, "keys", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 keys")

	out, err = execute(t, "--verbose", "keys", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "boss_theme: audio/boss.ogg")
}

func TestKeys_RejectsEmptyPath(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("keys:\n  hero_skin: \"\"\n"), 0o644))

	_, err := execute(t, "keys", manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty path")
}
