package loadstate

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// DynamicKeys maps opaque string keys to asset paths. Application code
// registers keys between loading phases; collections resolve them at load
// start. Keys are normalized to NFC on every access so visually identical
// spellings hit the same entry.
//
// Single-writer-per-tick: the driver reads during its step, everything else
// mutates between ticks. No locking under the tick-loop model.
type DynamicKeys struct {
	paths map[string]string
}

func NewDynamicKeys() *DynamicKeys {
	return &DynamicKeys{paths: make(map[string]string, 16)}
}

// Set inserts or overwrites a key. Overwriting replaces the previous path.
func (k *DynamicKeys) Set(key, path string) {
	k.paths[norm.NFC.String(key)] = path
}

// Get returns the path registered for key. An absent key is a
// MissingKeyError: loading cannot silently proceed with an undefined asset.
func (k *DynamicKeys) Get(key string) (string, error) {
	path, ok := k.paths[norm.NFC.String(key)]
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	return path, nil
}

// Remove deletes a key. Removing an absent key is a no-op.
func (k *DynamicKeys) Remove(key string) {
	delete(k.paths, norm.NFC.String(key))
}

// Has reports whether key is registered.
func (k *DynamicKeys) Has(key string) bool {
	_, ok := k.paths[norm.NFC.String(key)]
	return ok
}

func (k *DynamicKeys) Len() int {
	return len(k.paths)
}

// Names returns every registered key, sorted.
func (k *DynamicKeys) Names() []string {
	names := make([]string, 0, len(k.paths))
	for name := range k.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
