// Package autoload reads the user's autoloads.json: PWADs that should load
// on every game, under a specific sourceport, or under a specific IWAD.
package autoload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Autoloads lists extra PWAD names by scope. Names are resolver inputs, not
// paths; every entry goes through the normal PWAD resolution.
type Autoloads struct {
	Universal  []string            `json:"universal"`
	Sourceport map[string][]string `json:"sourceport"`
	IWAD       map[string][]string `json:"iwad"`
}

const template = `{
    "_comment": "Place in 'universal' those PWADs that you always want to load.",
    "universal": [],
    "iwad": {
        "_comment": ["Place in here those PWADs that only load under a specific IWAD. The key should be the IWAD, and the value the names of the PWADs."],
        "_example": ["foo.wad", "bar.pk3", "baz.zip"]
    },
    "sourceport": {
        "_comment": ["Place in here those PWADs that only load under a specific sourceport. The key should be the sourceport, and the value should be the PWADs."],
        "_example": ["foo.wad", "bar.pk3", "baz.zip"]
    }
}
`

// Load reads the autoload file, writing a commented template first when the
// file does not exist yet.
func Load(path string) (Autoloads, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Autoloads{}, fmt.Errorf("read autoloads: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Autoloads{}, fmt.Errorf("create autoloads directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
			return Autoloads{}, fmt.Errorf("create autoloads template: %w", err)
		}
		data = []byte(template)
	}

	var loads Autoloads
	if err := json.Unmarshal(data, &loads); err != nil {
		return Autoloads{}, fmt.Errorf("%s contains bad JSON: %w", path, err)
	}
	// The template's _example keys are documentation, not real scopes.
	delete(loads.Sourceport, "_comment")
	delete(loads.Sourceport, "_example")
	delete(loads.IWAD, "_comment")
	delete(loads.IWAD, "_example")
	return loads, nil
}

// ForGame returns every autoload name that applies to the given sourceport
// binary stem and IWAD stem, universal entries first.
func (a Autoloads) ForGame(sourceport, iwad string) []string {
	var names []string
	names = append(names, a.Universal...)
	names = append(names, a.Sourceport[sourceport]...)
	names = append(names, a.IWAD[iwad]...)
	return names
}
