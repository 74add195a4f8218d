package assetserver

import (
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeFunc turns raw file bytes into the decoded asset value.
type DecodeFunc func(name string, raw []byte) (any, error)

// Table is the decoded form of a yaml data table: one named top-level list
// of string-keyed rows.
type Table struct {
	Name string
	Rows []map[string]any
}

// Count returns the number of rows loaded.
func (t *Table) Count() int {
	return len(t.Rows)
}

// DecodeTable parses a yaml table file. The file must hold exactly one
// top-level key naming a list of mappings, like the game data tables:
//
//	weapons:
//	  - id: 1
//	    name: dagger
func DecodeTable(name string, raw []byte) (any, error) {
	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(doc) != 1 {
		return nil, fmt.Errorf("parse %s: want exactly one top-level list, got %d keys", name, len(doc))
	}
	var t *Table
	for key, rows := range doc {
		t = &Table{Name: key, Rows: rows}
	}
	return t, nil
}

// DecodeRaw returns the file bytes unchanged. Extensions without a
// registered decoder fall back to this.
func DecodeRaw(_ string, raw []byte) (any, error) {
	return raw, nil
}

// decoderFor resolves the decoder registered for name's extension, falling
// back to DecodeRaw. Runs on the tick goroutine at issue time, so workers
// never touch the decoder map.
func (s *Server) decoderFor(name string) DecodeFunc {
	ext := strings.ToLower(path.Ext(name))
	if fn, ok := s.decoders[ext]; ok {
		return fn
	}
	return DecodeRaw
}
