package damage

// ResolveAffinity determines the effective affinity tier and message key for
// c's target, honoring the request's affinity override and its ignore
// flags/traits. Ignore flags only ever downgrade a tier to TierNone.
//
// This stage always succeeds: unknown damage types resolve to TierNone with
// MsgNormal.
//
// Precondition: c must be non-nil with a non-nil Request and Target.
// Postcondition: c.Tier and c.Message are set.
func ResolveAffinity(c *Context) {
	req := c.Request

	tier := TierNone
	if req.Overrides.Affinity != nil {
		// Explicit override skips the target lookup entirely.
		tier = *req.Overrides.Affinity
	} else {
		tier = c.Target.AffinityFor(req.DamageType())
	}

	msg := MsgNormal
	switch tier {
	case TierVulnerability:
		if req.Extra.IgnoreVulnerability {
			tier = TierNone
		} else {
			msg = MsgVulnerable
		}
	case TierResistance:
		if req.Extra.IgnoreResistance || req.HasTrait(TraitIgnoreResistance) {
			tier = TierNone
			msg = MsgResistanceIgnore
		} else {
			msg = MsgResistant
		}
	case TierImmunity:
		if req.Extra.IgnoreImmunity || req.HasTrait(TraitIgnoreImmunity) {
			tier = TierNone
			msg = MsgImmunityIgnore
		} else {
			msg = MsgImmune
		}
	case TierAbsorption:
		if req.Extra.IgnoreAbsorption {
			tier = TierNone
		} else {
			msg = MsgAbsorbed
		}
	}

	c.Tier = tier
	c.Message = msg
}
