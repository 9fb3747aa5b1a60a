package damage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/emberfell/smite/internal/game/damage"
)

func newCalcContext(amount float64) *damage.Context {
	tgt := &affinityTarget{name: "g", tier: damage.TierNone}
	req := damage.NewRequest(nil, []damage.Target{tgt},
		damage.Base{Total: amount, Type: "fire"}, damage.Extra{}, damage.Overrides{})
	return damage.NewContext(req, tgt)
}

func TestCalculate_BonusesBeforeModifiers(t *testing.T) {
	c := newCalcContext(10)
	c.AddBonus("flat", 6)
	c.AddModifier("halved", 0.5)

	damage.Calculate(c)

	// Multipliers apply to the bonus-adjusted total: (10+6)*0.5, not 10*0.5+6.
	result, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, 8.0, result)
}

func TestCalculate_NoEntries(t *testing.T) {
	c := newCalcContext(7)
	damage.Calculate(c)

	result, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, 7.0, result)
}

func TestCalculate_Property_FoldShape(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		amount := rapid.Float64Range(0, 100).Draw(rt, "amount")
		bonuses := rapid.SliceOfN(rapid.Float64Range(-10, 10), 0, 5).Draw(rt, "bonuses")
		modifiers := rapid.SliceOfN(rapid.Float64Range(-2, 2), 0, 4).Draw(rt, "modifiers")

		c := newCalcContext(amount)
		want := amount
		for _, b := range bonuses {
			c.AddBonus(rapid.StringMatching(`[a-z]{3,8}`).Draw(rt, "bonus_name"), b)
			want += b
		}
		for _, m := range modifiers {
			c.AddModifier(rapid.StringMatching(`[a-z]{3,8}`).Draw(rt, "mod_name"), m)
		}
		for _, m := range modifiers {
			want *= m
		}

		damage.Calculate(c)
		result, ok := c.Result()
		require.True(rt, ok)
		assert.InDelta(rt, want, result, 1e-9)
	})
}
