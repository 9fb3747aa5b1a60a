// Package render formats damage-resolution records as plain text fragments
// for chat-log emission.
package render

import (
	"fmt"
	"strings"

	"github.com/emberfell/smite/internal/game/damage"
	"github.com/emberfell/smite/internal/game/ruleset"
)

// messagePhrases maps affinity message keys to display phrases.
var messagePhrases = map[damage.Message]string{
	damage.MsgNormal:           "applied normally",
	damage.MsgVulnerable:       "vulnerable",
	damage.MsgResistant:        "resistant",
	damage.MsgResistanceIgnore: "resistance ignored",
	damage.MsgImmune:           "immune",
	damage.MsgImmunityIgnore:   "immunity ignored",
	damage.MsgAbsorbed:         "absorbed",
}

// Text renders records as single-line text using damage-type labels from a
// ruleset registry.
type Text struct {
	rules *ruleset.Registry
}

// NewText creates a Text renderer.
//
// Precondition: rules must be non-nil.
func NewText(rules *ruleset.Registry) *Text {
	return &Text{rules: rules}
}

// TypeTag renders the inline damage type + affinity tag, e.g.
// "[Fire|resistance]". TierNone renders without the affinity suffix.
func (t *Text) TypeTag(damageType string, tier damage.Tier) string {
	def := t.rules.Resolve(damageType)
	if tier == damage.TierNone {
		return fmt.Sprintf("[%s]", def.Label)
	}
	return fmt.Sprintf("[%s|%s]", def.Label, tier)
}

// AppliedSummary renders the per-target applied-damage summary: target name,
// magnitude, type label, affinity phrase, and source attribution.
func (t *Text) AppliedSummary(rec damage.Record) string {
	def := t.rules.Resolve(rec.DamageType)

	var b strings.Builder
	if rec.Delta > 0 {
		fmt.Fprintf(&b, "%s absorbs %g %s damage and is healed", rec.TargetName, rec.Applied, def.Label)
	} else {
		fmt.Fprintf(&b, "%s takes %g %s damage", rec.TargetName, rec.Applied, def.Label)
	}
	// The absorption branch already narrates its message.
	if phrase, ok := messagePhrases[rec.Message]; ok && rec.Message != damage.MsgNormal && rec.Message != damage.MsgAbsorbed {
		fmt.Fprintf(&b, " (%s)", phrase)
	}
	if rec.SourceName != "" {
		fmt.Fprintf(&b, " from %s", rec.SourceName)
	}
	b.WriteString(".")
	return b.String()
}
