// Package toml loads dataset distribution manifests from TOML files.
package toml

import (
	"os"

	"github.com/fwojciec/shinra"
	"github.com/pelletier/go-toml/v2"
)

// LoadManifest reads and validates a manifest from a TOML file.
func LoadManifest(path string) (*shinra.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shinra.Errorf(shinra.ENOTFOUND, "manifest %q not found", path)
		}
		return nil, err
	}
	var manifest shinra.Manifest
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return nil, shinra.Errorf(shinra.EINVALID, "manifest %q: %s", path, err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// SaveManifest writes a manifest to a TOML file.
func SaveManifest(path string, manifest *shinra.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	raw, err := toml.Marshal(manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
