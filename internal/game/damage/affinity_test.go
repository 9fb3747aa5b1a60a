package damage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/emberfell/smite/internal/game/damage"
)

// affinityTarget reports a fixed tier for every damage type.
type affinityTarget struct {
	name string
	tier damage.Tier
}

func (a *affinityTarget) Name() string                   { return a.name }
func (a *affinityTarget) AffinityFor(string) damage.Tier { return a.tier }
func (a *affinityTarget) ModifyPool(context.Context, string, float64, bool) error {
	return nil
}

func newAffinityContext(tier damage.Tier, extra damage.Extra, traits ...string) *damage.Context {
	req := damage.NewRequest(nil, []damage.Target{&affinityTarget{name: "g", tier: tier}},
		damage.Base{Total: 10, Type: "fire"}, extra, damage.Overrides{})
	for _, trait := range traits {
		req.AddTrait(trait)
	}
	return damage.NewContext(req, req.Targets[0])
}

func TestResolveAffinity_Defaults(t *testing.T) {
	c := newAffinityContext(damage.TierNone, damage.Extra{})
	damage.ResolveAffinity(c)
	assert.Equal(t, damage.TierNone, c.Tier)
	assert.Equal(t, damage.MsgNormal, c.Message)
}

func TestResolveAffinity_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		tier    damage.Tier
		extra   damage.Extra
		traits  []string
		want    damage.Tier
		wantMsg damage.Message
	}{
		{"vulnerable", damage.TierVulnerability, damage.Extra{}, nil,
			damage.TierVulnerability, damage.MsgVulnerable},
		{"vulnerable ignored", damage.TierVulnerability, damage.Extra{IgnoreVulnerability: true}, nil,
			damage.TierNone, damage.MsgNormal},
		{"resistant", damage.TierResistance, damage.Extra{}, nil,
			damage.TierResistance, damage.MsgResistant},
		{"resistance ignored by flag", damage.TierResistance, damage.Extra{IgnoreResistance: true}, nil,
			damage.TierNone, damage.MsgResistanceIgnore},
		{"resistance ignored by trait", damage.TierResistance, damage.Extra{},
			[]string{damage.TraitIgnoreResistance},
			damage.TierNone, damage.MsgResistanceIgnore},
		{"immune", damage.TierImmunity, damage.Extra{}, nil,
			damage.TierImmunity, damage.MsgImmune},
		{"immunity ignored by flag", damage.TierImmunity, damage.Extra{IgnoreImmunity: true}, nil,
			damage.TierNone, damage.MsgImmunityIgnore},
		{"immunity ignored by trait", damage.TierImmunity, damage.Extra{},
			[]string{damage.TraitIgnoreImmunity},
			damage.TierNone, damage.MsgImmunityIgnore},
		{"absorbed", damage.TierAbsorption, damage.Extra{}, nil,
			damage.TierAbsorption, damage.MsgAbsorbed},
		{"absorption ignored", damage.TierAbsorption, damage.Extra{IgnoreAbsorption: true}, nil,
			damage.TierNone, damage.MsgNormal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newAffinityContext(tc.tier, tc.extra, tc.traits...)
			damage.ResolveAffinity(c)
			assert.Equal(t, tc.want, c.Tier)
			assert.Equal(t, tc.wantMsg, c.Message)
		})
	}
}

func TestResolveAffinity_OverrideSkipsLookup(t *testing.T) {
	override := damage.TierImmunity
	req := damage.NewRequest(nil,
		[]damage.Target{&affinityTarget{name: "g", tier: damage.TierVulnerability}},
		damage.Base{Total: 10, Type: "fire"}, damage.Extra{},
		damage.Overrides{Affinity: &override})
	c := damage.NewContext(req, req.Targets[0])

	damage.ResolveAffinity(c)
	assert.Equal(t, damage.TierImmunity, c.Tier)
	assert.Equal(t, damage.MsgImmune, c.Message)
}

// Ignore flags only ever pull a tier down to none; no combination of flags
// or traits can make a tier more harmful.
func TestResolveAffinity_Property_IgnoreFlagsNeverUpgrade(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tier := damage.Tier(rapid.IntRange(0, 4).Draw(rt, "tier"))
		extra := damage.Extra{
			IgnoreResistance:    rapid.Bool().Draw(rt, "ignore_resistance"),
			IgnoreImmunity:      rapid.Bool().Draw(rt, "ignore_immunity"),
			IgnoreVulnerability: rapid.Bool().Draw(rt, "ignore_vulnerability"),
			IgnoreAbsorption:    rapid.Bool().Draw(rt, "ignore_absorption"),
		}
		c := newAffinityContext(tier, extra)
		damage.ResolveAffinity(c)
		assert.Contains(rt, []damage.Tier{tier, damage.TierNone}, c.Tier)
	})
}
