package damage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/emberfell/smite/internal/game/damage"
)

// dummyTarget is the minimal damage.Target used by request tests.
type dummyTarget struct{ name string }

func (d *dummyTarget) Name() string                          { return d.name }
func (d *dummyTarget) AffinityFor(string) damage.Tier        { return damage.TierNone }
func (d *dummyTarget) ModifyPool(context.Context, string, float64, bool) error { return nil }

func TestNewRequest_AmountDerivation(t *testing.T) {
	base := damage.Base{Total: 10, Type: "fire", ModifierTotal: 2, Bonus: 4}

	req := damage.NewRequest(nil, []damage.Target{&dummyTarget{name: "g"}}, base,
		damage.Extra{Amount: 3}, damage.Overrides{})
	assert.Equal(t, 17.0, req.Amount()) // total + bonus + extra
	assert.Equal(t, "fire", req.DamageType())
}

func TestNewRequest_HRZeroIgnoresBaseTotal(t *testing.T) {
	base := damage.Base{Total: 10, Type: "fire", ModifierTotal: 2, Bonus: 4}

	req := damage.NewRequest(nil, []damage.Target{&dummyTarget{name: "g"}}, base,
		damage.Extra{Amount: 3, HRZero: true}, damage.Overrides{})
	assert.Equal(t, 9.0, req.Amount()) // bonus + modifier total + extra
}

func TestRequest_Property_HRZeroNeverReadsBaseTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.Float64Range(0, 100).Draw(rt, "total")
		bonus := rapid.Float64Range(0, 20).Draw(rt, "bonus")
		modTotal := rapid.Float64Range(0, 20).Draw(rt, "mod_total")
		extra := rapid.Float64Range(0, 20).Draw(rt, "extra")

		base := damage.Base{Total: total, Type: "fire", ModifierTotal: modTotal, Bonus: bonus}
		req := damage.NewRequest(nil, []damage.Target{&dummyTarget{name: "g"}}, base,
			damage.Extra{Amount: extra, HRZero: true}, damage.Overrides{})

		assert.Equal(rt, bonus+modTotal+extra, req.Amount())
	})
}

func TestRequest_AllTargets_ExtraOverride(t *testing.T) {
	primary := []damage.Target{&dummyTarget{name: "a"}, &dummyTarget{name: "b"}}
	override := []damage.Target{&dummyTarget{name: "c"}}

	req := damage.NewRequest(nil, primary, damage.Base{Type: "fire"},
		damage.Extra{Targets: override}, damage.Overrides{})
	assert.Equal(t, override, req.AllTargets())

	req = damage.NewRequest(nil, primary, damage.Base{Type: "fire"},
		damage.Extra{}, damage.Overrides{})
	assert.Equal(t, primary, req.AllTargets())
}

func TestRequest_Validate(t *testing.T) {
	req := damage.NewRequest(nil, []damage.Target{&dummyTarget{name: "g"}},
		damage.Base{Type: "fire"}, damage.Extra{}, damage.Overrides{})
	require.NoError(t, req.Validate())

	empty := damage.NewRequest(nil, nil, damage.Base{Type: "fire"},
		damage.Extra{}, damage.Overrides{})
	assert.ErrorIs(t, empty.Validate(), damage.ErrNoTargets)

	withNil := damage.NewRequest(nil, []damage.Target{nil},
		damage.Base{Type: "fire"}, damage.Extra{}, damage.Overrides{})
	assert.ErrorIs(t, withNil.Validate(), damage.ErrNoTargets)
}

func TestRequest_Traits(t *testing.T) {
	req := damage.NewRequest(nil, []damage.Target{&dummyTarget{name: "g"}},
		damage.Base{Type: "fire"}, damage.Extra{}, damage.Overrides{})

	assert.False(t, req.HasTrait(damage.TraitIgnoreResistance))
	req.AddTrait(damage.TraitIgnoreResistance)
	assert.True(t, req.HasTrait(damage.TraitIgnoreResistance))
	assert.Contains(t, req.Traits(), damage.TraitIgnoreResistance)
}

func TestRequest_SourceDescriptor_NilSource(t *testing.T) {
	req := damage.NewRequest(nil, []damage.Target{&dummyTarget{name: "g"}},
		damage.Base{Type: "fire"}, damage.Extra{}, damage.Overrides{})
	assert.Equal(t, damage.Descriptor{}, req.SourceDescriptor())
}
