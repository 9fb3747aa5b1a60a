// Package damage implements the staged damage-resolution pipeline: affinity
// resolution, bonus/modifier collection, result calculation, and per-target
// application with audit record emission.
package damage

import "context"

// Tier is a target's affinity level for one damage type. Tiers are ordered
// from most to least harmful to the target.
type Tier int

const (
	TierVulnerability Tier = iota
	TierNone
	TierResistance
	TierImmunity
	TierAbsorption
)

// tierMultipliers is the fixed tier → multiplier table. Initialized once and
// never mutated at runtime.
var tierMultipliers = map[Tier]float64{
	TierVulnerability: 2,
	TierNone:          1,
	TierResistance:    0.5,
	TierImmunity:      0,
	TierAbsorption:    -1,
}

// Multiplier returns the damage multiplier for this tier. Absorption's -1 is
// intentional: absorbed damage heals the target instead of harming it.
//
// Postcondition: Returns one of 2, 1, 0.5, 0, -1.
func (t Tier) Multiplier() float64 {
	m, ok := tierMultipliers[t]
	if !ok {
		return 1
	}
	return m
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierVulnerability:
		return "vulnerability"
	case TierNone:
		return "none"
	case TierResistance:
		return "resistance"
	case TierImmunity:
		return "immunity"
	case TierAbsorption:
		return "absorption"
	default:
		return "unknown"
	}
}

// ParseTier converts a tier name back to a Tier.
//
// Postcondition: Returns (tier, true) for a known name, (TierNone, false) otherwise.
func ParseTier(s string) (Tier, bool) {
	switch s {
	case "vulnerability":
		return TierVulnerability, true
	case "none":
		return TierNone, true
	case "resistance":
		return TierResistance, true
	case "immunity":
		return TierImmunity, true
	case "absorption":
		return TierAbsorption, true
	default:
		return TierNone, false
	}
}

// Message describes how the resolved affinity affected application. The
// renderer maps these keys to display text.
type Message string

const (
	MsgNormal           Message = "applied-normally"
	MsgVulnerable       Message = "vulnerable"
	MsgResistant        Message = "resistant"
	MsgResistanceIgnore Message = "resistance-ignored"
	MsgImmune           Message = "immune"
	MsgImmunityIgnore   Message = "immunity-ignored"
	MsgAbsorbed         Message = "absorbed"
)

// Situational trait names carried on a request, distinct from the static
// ignore flags on the extra-damage descriptor.
const (
	TraitIgnoreResistance = "ignore-resistance"
	TraitIgnoreImmunity   = "ignore-immunity"
)

// FlagScaleIncomingDamage is the per-target flag that scales all incoming
// damage by its numeric value.
const FlagScaleIncomingDamage = "scale-incoming-damage"

// PoolHitPoints is the resource pool the pipeline mutates by default.
const PoolHitPoints = "hp"

// BonusTable maps "all" or a damage type id to an additive damage bonus.
// Absent entries count as 0.
type BonusTable map[string]float64

// Lookup returns the table's universal and type-specific bonuses for
// damageType, defaulting each to 0 when absent.
func (b BonusTable) Lookup(damageType string) (all, typed float64) {
	return b["all"], b[damageType]
}

// Descriptor attributes a damage source: who or what caused it.
type Descriptor struct {
	Name string
	ID   string
	Icon string
}

// Target is the surface every damage target must expose. Optional
// capabilities (bonus tables, flags) are separate interfaces checked by
// presence, never by reflection.
type Target interface {
	// Name returns the target's display name for audit records.
	Name() string
	// AffinityFor returns the target's affinity tier for the given damage
	// type. Unknown types resolve to TierNone.
	AffinityFor(damageType string) Tier
	// ModifyPool mutates the named resource pool. When isDelta is true,
	// value is added to the pool; otherwise the pool is set to value.
	// Clamping is the target's own policy.
	ModifyPool(ctx context.Context, pool string, value float64, isDelta bool) error
}

// Source identifies the entity that caused the damage.
type Source interface {
	Descriptor() Descriptor
}

// OutgoingModifier is an optional Source capability exposing an
// outgoing-damage bonus table.
type OutgoingModifier interface {
	OutgoingDamageBonuses() BonusTable
}

// IncomingModifier is an optional Target capability exposing an
// incoming-damage bonus table.
type IncomingModifier interface {
	IncomingDamageBonuses() BonusTable
}

// FlagHolder is an optional Target capability exposing a named numeric
// flag store.
type FlagHolder interface {
	// Flag returns the value for name and whether it is set.
	Flag(name string) (float64, bool)
}
