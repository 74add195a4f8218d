package loadstate

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

type keyManifestFile struct {
	Keys map[string]string `yaml:"keys"`
}

// LoadKeyManifest reads a yaml key manifest and merges its entries into keys,
// overwriting duplicates. Returns the number of entries merged. Validation
// runs before any merge: a rejected manifest leaves keys untouched.
//
// Manifest shape:
//
//	keys:
//	  hero_skin: sprites/hero_red.yaml
//	  boss_theme: audio/boss.ogg
func LoadKeyManifest(fsys fs.FS, path string, keys *DynamicKeys) (int, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return 0, fmt.Errorf("read key manifest %s: %w", path, err)
	}
	var f keyManifestFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("parse key manifest %s: %w", path, err)
	}
	for key, assetPath := range f.Keys {
		if assetPath == "" {
			return 0, fmt.Errorf("key manifest %s: key %q has empty path", path, key)
		}
	}
	for key, assetPath := range f.Keys {
		keys.Set(key, assetPath)
	}
	return len(f.Keys), nil
}
