// Package actor provides the concrete entity model consumed by the damage
// pipeline: affinity tables, bonus tables, named flags, and a clamped
// hit-point pool.
package actor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/emberfell/smite/internal/game/damage"
)

// Pool is a bounded resource pool. Temp points soak damage before Current.
type Pool struct {
	Current float64
	Max     float64
	Temp    float64
}

// Actor is a damage source and target. It implements damage.Target,
// damage.Source, and all optional capability interfaces.
type Actor struct {
	id   uuid.UUID
	name string
	icon string

	mu         sync.Mutex
	pool       Pool
	affinities map[string]damage.Tier
	outgoing   damage.BonusTable
	incoming   damage.BonusTable
	flags      map[string]float64
}

// New creates an Actor with a full hit-point pool.
//
// Precondition: name must be non-empty; maxHP must be > 0.
// Postcondition: Returns a non-nil Actor with Current == Max == maxHP.
func New(name string, maxHP float64) *Actor {
	return &Actor{
		id:         uuid.New(),
		name:       name,
		pool:       Pool{Current: maxHP, Max: maxHP},
		affinities: make(map[string]damage.Tier),
		outgoing:   make(damage.BonusTable),
		incoming:   make(damage.BonusTable),
		flags:      make(map[string]float64),
	}
}

// Name returns the actor's display name.
func (a *Actor) Name() string { return a.name }

// Descriptor returns the actor's attribution descriptor.
func (a *Actor) Descriptor() damage.Descriptor {
	return damage.Descriptor{Name: a.name, ID: a.id.String(), Icon: a.icon}
}

// SetIcon sets the attribution icon path.
func (a *Actor) SetIcon(icon string) { a.icon = icon }

// HP returns a snapshot of the hit-point pool.
func (a *Actor) HP() Pool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pool
}

// SetAffinity sets the actor's affinity tier for a damage type.
func (a *Actor) SetAffinity(damageType string, tier damage.Tier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.affinities[damageType] = tier
}

// AffinityFor returns the actor's affinity tier for damageType, defaulting
// to TierNone when the type has no entry.
func (a *Actor) AffinityFor(damageType string) damage.Tier {
	a.mu.Lock()
	defer a.mu.Unlock()
	tier, ok := a.affinities[damageType]
	if !ok {
		return damage.TierNone
	}
	return tier
}

// SetOutgoingBonus sets an outgoing-damage bonus entry. Key is "all" or a
// damage type id.
func (a *Actor) SetOutgoingBonus(key string, value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outgoing[key] = value
}

// OutgoingDamageBonuses returns a copy of the outgoing-damage bonus table.
func (a *Actor) OutgoingDamageBonuses() damage.BonusTable {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyTable(a.outgoing)
}

// SetIncomingBonus sets an incoming-damage bonus entry.
func (a *Actor) SetIncomingBonus(key string, value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.incoming[key] = value
}

// IncomingDamageBonuses returns a copy of the incoming-damage bonus table.
func (a *Actor) IncomingDamageBonuses() damage.BonusTable {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyTable(a.incoming)
}

// SetFlag sets a named numeric flag, e.g. damage.FlagScaleIncomingDamage.
func (a *Actor) SetFlag(name string, value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flags[name] = value
}

// Flag returns the value for name and whether it is set.
func (a *Actor) Flag(name string) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.flags[name]
	return v, ok
}

// ModifyPool mutates the named pool. Delta semantics add value to Current;
// otherwise Current is set to value. The result is clamped to [0, Max].
// Negative deltas consume Temp points before Current.
//
// Postcondition: 0 <= Current <= Max; Temp >= 0.
func (a *Actor) ModifyPool(_ context.Context, pool string, value float64, isDelta bool) error {
	if pool != damage.PoolHitPoints {
		return fmt.Errorf("actor %q has no pool %q", a.name, pool)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !isDelta {
		a.pool.Current = clamp(value, 0, a.pool.Max)
		return nil
	}

	delta := value
	if delta < 0 && a.pool.Temp > 0 {
		soaked := min(a.pool.Temp, -delta)
		a.pool.Temp -= soaked
		delta += soaked
	}
	a.pool.Current = clamp(a.pool.Current+delta, 0, a.pool.Max)
	return nil
}

// SetTempHP grants temporary hit points that soak damage before Current.
//
// Precondition: value must be >= 0.
func (a *Actor) SetTempHP(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pool.Temp = value
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func copyTable(t damage.BonusTable) damage.BonusTable {
	out := make(damage.BonusTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
