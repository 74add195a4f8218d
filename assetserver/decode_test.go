package assetserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTable_NamedList(t *testing.T) {
	raw := []byte(`
shops:
  - npc_id: 100
    items: 3
  - npc_id: 101
    items: 5
`)
	v, err := DecodeTable("shops.yaml", raw)
	require.NoError(t, err)

	table := v.(*Table)
	assert.Equal(t, "shops", table.Name)
	require.Equal(t, 2, table.Count())
	assert.Equal(t, 100, table.Rows[0]["npc_id"])
	assert.Equal(t, 5, table.Rows[1]["items"])
}

func TestDecodeTable_RejectsMultipleTopLevelKeys(t *testing.T) {
	raw := []byte("shops:\n  - npc_id: 1\nitems:\n  - id: 2\n")
	_, err := DecodeTable("mixed.yaml", raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one top-level list")
}

func TestDecodeTable_RejectsMalformedYAML(t *testing.T) {
	_, err := DecodeTable("broken.yaml", []byte("shops: ["))
	assert.Error(t, err)
}

func TestDecodeRaw_Passthrough(t *testing.T) {
	v, err := DecodeRaw("blob.bin", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, v)
}
