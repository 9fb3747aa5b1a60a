package damage

import "errors"

// ErrNoResult indicates the calculation stage completed without producing a
// numeric result. This is a logic defect in collection or calculation, not
// bad input, and aborts the whole request.
var ErrNoResult = errors.New("damage calculation produced no result")

// Calculate folds the collected entries over the request's starting amount:
// every bonus is added, then every modifier is multiplied, in that fixed
// order. Multipliers therefore apply to the bonus-adjusted total, not just
// the base amount.
//
// Precondition: Collect must have run on c.
// Postcondition: c.Result() reports a value.
func Calculate(c *Context) {
	result := c.Request.Amount()
	for _, b := range c.Bonuses() {
		result += b.Value
	}
	for _, m := range c.Modifiers() {
		result *= m.Value
	}
	c.SetResult(result)
}
