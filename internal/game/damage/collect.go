package damage

// Collect populates c's bonus and modifier entries from the source's and
// target's optional capabilities. It never produces a result itself.
//
// Bonuses: the source's outgoing-damage table and the target's
// incoming-damage table each contribute an "all" entry and a type-specific
// entry (0 when the type has no entry). Modifiers: the target's
// scale-incoming-damage flag when set, then always the affinity multiplier.
// Affinity is the last built-in modifier; hook contributions append after.
//
// Precondition: ResolveAffinity must have run on c.
// Postcondition: c's entries include an "affinity" modifier.
func Collect(c *Context) {
	damageType := c.Request.DamageType()

	if src, ok := c.Request.Source.(OutgoingModifier); ok {
		all, typed := src.OutgoingDamageBonuses().Lookup(damageType)
		c.AddBonus("outgoingDamage.all", all)
		c.AddBonus("outgoingDamage."+damageType, typed)
	}

	if tgt, ok := c.Target.(IncomingModifier); ok {
		all, typed := tgt.IncomingDamageBonuses().Lookup(damageType)
		c.AddBonus("incomingDamage.all", all)
		c.AddBonus("incomingDamage."+damageType, typed)
	}

	if flags, ok := c.Target.(FlagHolder); ok {
		if scale, set := flags.Flag(FlagScaleIncomingDamage); set {
			c.AddModifier("scaleIncomingDamage", scale)
		}
	}

	c.AddModifier("affinity", c.Tier.Multiplier())
}
