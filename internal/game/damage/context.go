package damage

// Entry is one named numeric contribution collected on a Context. Bonus
// entries are summed; modifier entries are multiplied in collection order.
type Entry struct {
	Name  string
	Value float64
}

// Context carries the per-target working state through the pipeline stages.
// One Context is created per (request, target) pair, mutated in place by
// each stage, read once to apply damage, then discarded.
type Context struct {
	// Request is the owning request.
	Request *Request
	// Target is the entity this context resolves damage for.
	Target Target
	// Tier is the resolved affinity tier. Valid after affinity resolution.
	Tier Tier
	// Message is the resolved affinity message key.
	Message Message

	bonuses   []Entry
	modifiers []Entry
	result    float64
	hasResult bool
}

// NewContext creates a fresh Context for one target of req.
//
// Precondition: req and target must be non-nil.
func NewContext(req *Request, target Target) *Context {
	return &Context{
		Request: req,
		Target:  target,
		Tier:    TierNone,
		Message: MsgNormal,
	}
}

// AddBonus appends a named additive bonus. Insertion order is preserved for
// observability; it does not affect the result since bonuses are summed.
func (c *Context) AddBonus(name string, value float64) {
	c.bonuses = append(c.bonuses, Entry{Name: name, Value: value})
}

// AddModifier appends a named multiplicative modifier. Modifiers apply in
// collection order; hook contributions land after the built-ins.
func (c *Context) AddModifier(name string, value float64) {
	c.modifiers = append(c.modifiers, Entry{Name: name, Value: value})
}

// Bonuses returns the collected bonus entries in insertion order.
func (c *Context) Bonuses() []Entry { return c.bonuses }

// Modifiers returns the collected modifier entries in insertion order.
func (c *Context) Modifiers() []Entry { return c.modifiers }

// SetResult records the final signed damage result for this target.
func (c *Context) SetResult(v float64) {
	c.result = v
	c.hasResult = true
}

// Result returns the final result and whether one has been produced.
func (c *Context) Result() (float64, bool) {
	return c.result, c.hasResult
}
