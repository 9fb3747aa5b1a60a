package damage

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoTargets is returned when a request resolves to an empty target list.
var ErrNoTargets = errors.New("damage request has no resolvable targets")

// Base is the base damage descriptor from the originating roll.
type Base struct {
	// Total is the full rolled total, modifiers included.
	Total float64
	// Type is the damage type id, e.g. "fire".
	Type string
	// ModifierTotal is the sum of static modifiers folded into Total.
	ModifierTotal float64
	// Bonus is the source's flat damage bonus.
	Bonus float64
}

// Extra is the optional extra-damage descriptor: an additive bonus plus
// flags controlling how the base roll and the target's affinities are read.
type Extra struct {
	// Amount is an additive bonus on top of the base damage.
	Amount float64
	// HRZero treats the base roll as zero: the derived amount becomes
	// bonus + modifier total + extra amount.
	HRZero bool
	// Targets, when non-empty, replaces the request's target list.
	Targets []Target
	// Static ignore flags. These only ever downgrade an affinity tier to
	// TierNone; they never upgrade.
	IgnoreResistance    bool
	IgnoreImmunity      bool
	IgnoreVulnerability bool
	IgnoreAbsorption    bool
}

// Overrides carries explicit caller-supplied values that bypass normal
// resolution.
type Overrides struct {
	// Affinity, when set, is used verbatim in place of the target's
	// affinity lookup.
	Affinity *Tier
	// Total, when set, becomes the per-target result directly; collection
	// and calculation are skipped.
	Total *float64
}

// Request is one damage instruction against an ordered list of targets.
// The derived amount and damage type are fixed at construction; only the
// trait set is mutable afterwards.
type Request struct {
	ID        uuid.UUID
	Source    Source
	Targets   []Target
	Base      Base
	Extra     Extra
	Overrides Overrides

	amount     float64
	damageType string
	traits     map[string]struct{}
}

// NewRequest builds a Request and derives its amount and damage type.
//
// Amount derivation: with Extra.HRZero set, amount = Base.Bonus +
// Base.ModifierTotal + Extra.Amount; otherwise amount = Base.Total +
// Base.Bonus + Extra.Amount.
//
// Postcondition: Returns a non-nil Request with a fresh ID and an empty
// trait set.
func NewRequest(source Source, targets []Target, base Base, extra Extra, ov Overrides) *Request {
	amount := base.Total + base.Bonus + extra.Amount
	if extra.HRZero {
		amount = base.Bonus + base.ModifierTotal + extra.Amount
	}
	return &Request{
		ID:         uuid.New(),
		Source:     source,
		Targets:    targets,
		Base:       base,
		Extra:      extra,
		Overrides:  ov,
		amount:     amount,
		damageType: base.Type,
		traits:     make(map[string]struct{}),
	}
}

// Amount returns the derived starting amount, computed once at construction.
func (r *Request) Amount() float64 { return r.amount }

// DamageType returns the derived damage type id.
func (r *Request) DamageType() string { return r.damageType }

// AddTrait attaches a situational trait such as TraitIgnoreResistance.
func (r *Request) AddTrait(name string) { r.traits[name] = struct{}{} }

// HasTrait reports whether the named trait is attached.
func (r *Request) HasTrait(name string) bool {
	_, ok := r.traits[name]
	return ok
}

// Traits returns a snapshot of the attached trait names.
func (r *Request) Traits() []string {
	out := make([]string, 0, len(r.traits))
	for t := range r.traits {
		out = append(out, t)
	}
	return out
}

// AllTargets resolves the effective target list: the extra descriptor's
// override list when present, else Targets.
func (r *Request) AllTargets() []Target {
	if len(r.Extra.Targets) > 0 {
		return r.Extra.Targets
	}
	return r.Targets
}

// Validate checks that the request can be processed.
//
// Postcondition: Returns nil iff AllTargets resolves to a non-empty list
// with no nil entries; ErrNoTargets (possibly wrapped) otherwise.
func (r *Request) Validate() error {
	targets := r.AllTargets()
	if len(targets) == 0 {
		return ErrNoTargets
	}
	for _, t := range targets {
		if t == nil {
			return ErrNoTargets
		}
	}
	return nil
}

// SourceDescriptor returns the source's descriptor, or a zero Descriptor
// for sourceless damage such as environmental hazards.
func (r *Request) SourceDescriptor() Descriptor {
	if r.Source == nil {
		return Descriptor{}
	}
	return r.Source.Descriptor()
}
