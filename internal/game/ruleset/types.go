// Package ruleset provides the static damage-type definitions loaded from
// YAML at process start. The registry is immutable after loading.
package ruleset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DamageType is the static definition of one damage type.
type DamageType struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Icon     string `yaml:"icon"`
	Category string `yaml:"category"` // "physical" | "elemental" | "arcane"
}

// Validate checks that the definition satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Label are non-empty.
func (d *DamageType) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("damage type: id must not be empty")
	}
	if d.Label == "" {
		return fmt.Errorf("damage type %q: label must not be empty", d.ID)
	}
	return nil
}

// Registry holds all known damage types keyed by ID. It is populated once
// by LoadDirectory and never mutated afterwards.
type Registry struct {
	types map[string]*DamageType
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*DamageType)}
}

// register adds def, overwriting any existing entry with the same ID.
func (r *Registry) register(def *DamageType) {
	r.types[def.ID] = def
}

// Get returns the definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*DamageType, bool) {
	d, ok := r.types[id]
	return d, ok
}

// Resolve returns the definition for id, falling back to a neutral
// definition that echoes the raw id when the type is unknown. Unknown types
// are a policy default, not an error.
func (r *Registry) Resolve(id string) DamageType {
	if d, ok := r.types[id]; ok {
		return *d
	}
	return DamageType{ID: id, Label: id, Icon: "icons/damage/untyped.svg", Category: "untyped"}
}

// Len returns the number of registered damage types.
func (r *Registry) Len() int { return len(r.types) }

// LoadDirectory reads every *.yaml file in dir, parses each as a DamageType,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading damage-type dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def DamageType
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		reg.register(&def)
	}
	return reg, nil
}
