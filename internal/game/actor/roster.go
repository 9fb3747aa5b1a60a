package actor

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberfell/smite/internal/game/damage"
)

// Spec is one actor definition in a roster YAML file.
type Spec struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Icon   string  `yaml:"icon"`
	MaxHP  float64 `yaml:"max_hp"`
	TempHP float64 `yaml:"temp_hp"`
	// Affinities maps damage type id to tier name, e.g. fire: resistance.
	Affinities      map[string]string  `yaml:"affinities"`
	OutgoingBonuses map[string]float64 `yaml:"outgoing_bonuses"`
	IncomingBonuses map[string]float64 `yaml:"incoming_bonuses"`
	Flags           map[string]float64 `yaml:"flags"`
}

// Validate checks that the spec satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP > 0, and
// every affinity tier name parses.
func (s *Spec) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("actor spec: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("actor spec %q: name must not be empty", s.ID)
	}
	if s.MaxHP <= 0 {
		return fmt.Errorf("actor spec %q: max_hp must be > 0, got %v", s.ID, s.MaxHP)
	}
	for damageType, tierName := range s.Affinities {
		if _, ok := damage.ParseTier(tierName); !ok {
			return fmt.Errorf("actor spec %q: unknown affinity tier %q for type %q", s.ID, tierName, damageType)
		}
	}
	return nil
}

// Build constructs an Actor from the spec.
//
// Precondition: Validate must return nil.
func (s *Spec) Build() *Actor {
	a := New(s.Name, s.MaxHP)
	a.SetIcon(s.Icon)
	if s.TempHP > 0 {
		a.SetTempHP(s.TempHP)
	}
	for damageType, tierName := range s.Affinities {
		tier, _ := damage.ParseTier(tierName)
		a.SetAffinity(damageType, tier)
	}
	for key, v := range s.OutgoingBonuses {
		a.SetOutgoingBonus(key, v)
	}
	for key, v := range s.IncomingBonuses {
		a.SetIncomingBonus(key, v)
	}
	for name, v := range s.Flags {
		a.SetFlag(name, v)
	}
	return a
}

// LoadRoster reads a YAML file containing a list of actor specs and returns
// the built actors keyed by spec ID.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a non-empty map, or an error if the file fails to
// parse or any spec is invalid.
func LoadRoster(path string) (map[string]*Actor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %q: %w", path, err)
	}

	var specs []Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&specs); err != nil {
		return nil, fmt.Errorf("parsing roster %q: %w", path, err)
	}

	roster := make(map[string]*Actor, len(specs))
	for i := range specs {
		s := &specs[i]
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("roster %q: %w", path, err)
		}
		if _, exists := roster[s.ID]; exists {
			return nil, fmt.Errorf("roster %q: duplicate actor id %q", path, s.ID)
		}
		roster[s.ID] = s.Build()
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("roster %q: no actors defined", path)
	}
	return roster, nil
}
