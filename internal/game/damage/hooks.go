package damage

import "sync"

// ContextFunc mutates a per-target context at one of the pipeline's
// extension points. Callbacks run synchronously, in registration order, and
// must not introduce their own concurrency.
type ContextFunc func(*Context)

// ObserveFunc observes a target's about-to-be-applied result. It is fired
// for compatibility only and cannot change the outcome.
type ObserveFunc func(req *Request, target Target, result float64)

// RequestFunc observes a whole request before any application.
type RequestFunc func(*Request)

// Hooks is the ordered registry for the pipeline's extension points: two
// mutation seams (after built-in modifier collection, after calculation) and
// two observation-only seams (per-target pre-apply, request-level before
// apply).
//
// Registration is safe for concurrent use; firing happens on the pipeline's
// goroutine.
type Hooks struct {
	mu          sync.RWMutex
	collected   []ContextFunc
	calculated  []ContextFunc
	preApply    []ObserveFunc
	beforeApply []RequestFunc
}

// NewHooks creates an empty Hooks registry.
func NewHooks() *Hooks { return &Hooks{} }

// OnModifiersCollected registers f to run after built-in bonuses and
// modifiers are collected, before calculation. This is the pluggable-rules
// seam: f may append further bonuses and modifiers.
func (h *Hooks) OnModifiersCollected(f ContextFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.collected = append(h.collected, f)
}

// OnResultCalculated registers f to run after the result fold, before the
// result is finalized. f may adjust the result via SetResult.
func (h *Hooks) OnResultCalculated(f ContextFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calculated = append(h.calculated, f)
}

// OnPreApply registers an observation-only callback fired per target with
// the about-to-be-applied result.
func (h *Hooks) OnPreApply(f ObserveFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.preApply = append(h.preApply, f)
}

// OnBeforeApply registers an observation-only callback fired once per
// request, before any target is processed.
func (h *Hooks) OnBeforeApply(f RequestFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beforeApply = append(h.beforeApply, f)
}

func (h *Hooks) fireCollected(c *Context) {
	h.mu.RLock()
	fns := h.collected
	h.mu.RUnlock()
	for _, f := range fns {
		f(c)
	}
}

func (h *Hooks) fireCalculated(c *Context) {
	h.mu.RLock()
	fns := h.calculated
	h.mu.RUnlock()
	for _, f := range fns {
		f(c)
	}
}

func (h *Hooks) firePreApply(req *Request, target Target, result float64) {
	h.mu.RLock()
	fns := h.preApply
	h.mu.RUnlock()
	for _, f := range fns {
		f(req, target, result)
	}
}

func (h *Hooks) fireBeforeApply(req *Request) {
	h.mu.RLock()
	fns := h.beforeApply
	h.mu.RUnlock()
	for _, f := range fns {
		f(req)
	}
}
