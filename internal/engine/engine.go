package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// Kind distinguishes argument dialects between sourceport families.
type Kind int

const (
	// KindBoom covers vanilla- and Boom-derived ports (-skill, -vidmode).
	KindBoom Kind = iota
	// KindZDoom covers the ZDoom family (+skill console syntax).
	KindZDoom
)

func (k Kind) String() string {
	if k == KindZDoom {
		return "zdoom"
	}
	return "boom"
}

// UnmarshalJSON accepts the registry file's "boom"/"zdoom" spelling.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "boom", "":
		*k = KindBoom
	case "zdoom":
		*k = KindZDoom
	default:
		return fmt.Errorf("unknown engine kind %q", raw)
	}
	return nil
}

// Descriptor describes one known sourceport. The launcher treats it as a
// read-only record: how the binary behaves is the engine's business.
type Descriptor struct {
	Name             string   `json:"-"`
	Binary           string   `json:"binary"`
	RequiredArgs     []string `json:"required_args"`
	Kind             Kind     `json:"kind"`
	WidescreenAssets bool     `json:"widescreen_assets"`
	MergeAssets      bool     `json:"merge_assets"`
	PistolStart      bool     `json:"pistol_start"`
	Viddump          bool     `json:"viddump"`
}

// Registry maps engine names to descriptors.
type Registry map[string]Descriptor

// Builtin returns the compiled-in registry of common sourceports.
func Builtin() Registry {
	return Registry{
		"dsda-doom": {
			Binary:           "dsda-doom",
			Kind:             KindBoom,
			WidescreenAssets: true,
			PistolStart:      true,
			Viddump:          true,
		},
		"prboom-plus": {
			Binary:      "prboom-plus",
			Kind:        KindBoom,
			PistolStart: true,
			Viddump:     true,
		},
		"crispy-doom": {
			Binary:      "crispy-doom",
			Kind:        KindBoom,
			MergeAssets: true,
			PistolStart: true,
		},
		"chocolate-doom": {
			Binary:      "chocolate-doom",
			Kind:        KindBoom,
			MergeAssets: true,
		},
		"woof": {
			Binary:           "woof",
			Kind:             KindBoom,
			WidescreenAssets: true,
		},
		"gzdoom": {
			Binary: "gzdoom",
			Kind:   KindZDoom,
		},
	}
}

// Load merges the user's engines.json (if present) over the builtin registry.
// User entries with a known name replace the builtin descriptor wholesale.
func Load(path string) (Registry, error) {
	registry := Builtin()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			registry.nameEntries()
			return registry, nil
		}
		return nil, fmt.Errorf("read engine registry: %w", err)
	}

	var user Registry
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse engine registry %s: %w", path, err)
	}
	for name, desc := range user {
		registry[name] = desc
	}
	registry.nameEntries()
	return registry, nil
}

func (r Registry) nameEntries() {
	for name, desc := range r {
		desc.Name = name
		if strings.TrimSpace(desc.Binary) == "" {
			desc.Binary = name
		}
		r[name] = desc
	}
}

// Lookup returns the descriptor for an engine name.
func (r Registry) Lookup(name string) (Descriptor, bool) {
	desc, ok := r[name]
	return desc, ok
}

// Names returns the registered engine names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
