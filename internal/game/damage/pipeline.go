package damage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Record is the audit entry emitted for one target's resolution.
type Record struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	SourceName string
	TargetName string
	DamageType string
	Tier       Tier
	Message    Message
	// Applied is the absolute magnitude applied to the pool.
	Applied float64
	// Delta is the signed pool change: negative for damage, positive for
	// absorption healing.
	Delta float64
	// TypeTag and Summary are opaque rendered fragments.
	TypeTag   string
	Summary   string
	CreatedAt time.Time
}

// Renderer produces the two display fragments attached to each record. The
// pipeline treats both as opaque strings.
type Renderer interface {
	// TypeTag renders the inline damage type + affinity tag.
	TypeTag(damageType string, tier Tier) string
	// AppliedSummary renders the per-target applied-damage summary.
	AppliedSummary(rec Record) string
}

// Recorder persists one audit record per target, e.g. as a chat-log entry.
type Recorder interface {
	CreateRecord(ctx context.Context, rec Record) error
}

// Pipeline orchestrates damage resolution: per target it resolves affinity,
// collects bonuses and modifiers, calculates the result, applies the pool
// delta, and emits an audit record.
//
// A Pipeline holds no per-request state; concurrent Process calls each own
// their request and contexts.
type Pipeline struct {
	hooks    *Hooks
	renderer Renderer
	recorder Recorder
	logger   *zap.Logger
	pool     string
}

// NewPipeline creates a Pipeline.
//
// Precondition: hooks, renderer, recorder, and logger must be non-nil.
// Postcondition: Returns a Pipeline that mutates the PoolHitPoints pool.
func NewPipeline(hooks *Hooks, renderer Renderer, recorder Recorder, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		hooks:    hooks,
		renderer: renderer,
		recorder: recorder,
		logger:   logger,
		pool:     PoolHitPoints,
	}
}

// Process resolves req against every target in order and applies the
// results.
//
// Phase one runs synchronously in target order: context construction,
// affinity resolution, the override short-circuit or collection and
// calculation, and the pre-apply observation hook. A validation failure
// rejects the request before any side effect; a missing result after
// calculation aborts the whole request with ErrNoResult.
//
// Phase two issues the side effects: pool mutations run concurrently and
// independently, then records are emitted in target order. A failure for
// one target neither cancels nor rolls back the others; every side-effect
// error is joined into the returned error.
//
// Postcondition: Returns one Record per target on success, in target order.
func (p *Pipeline) Process(ctx context.Context, req *Request) ([]Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.hooks.fireBeforeApply(req)

	targets := req.AllTargets()
	records := make([]Record, 0, len(targets))
	for _, target := range targets {
		rec, err := p.resolveTarget(req, target)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	// Each target's pool update is independent: one failure must not
	// cancel or roll back the others, so the group runs on the caller's
	// context and every per-target error is kept.
	var g errgroup.Group
	errs := make([]error, len(targets))
	for i, target := range targets {
		rec := records[i]
		g.Go(func() error {
			if err := target.ModifyPool(ctx, p.pool, rec.Delta, true); err != nil {
				errs[i] = fmt.Errorf("applying %s delta to %q: %w", p.pool, rec.TargetName, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	// Records are emitted in target order even when pool mutations
	// complete out of order.
	for _, rec := range records {
		if err := p.recorder.CreateRecord(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("recording resolution for %q: %w", rec.TargetName, err))
		}
	}

	return records, errors.Join(errs...)
}

// resolveTarget runs the numeric stages for one target and builds its
// Record. No side effects are issued here.
func (p *Pipeline) resolveTarget(req *Request, target Target) (Record, error) {
	c := NewContext(req, target)

	ResolveAffinity(c)

	if req.Overrides.Total != nil {
		// Explicit total bypasses collection and calculation entirely.
		c.SetResult(*req.Overrides.Total)
	} else {
		Collect(c)
		p.hooks.fireCollected(c)
		Calculate(c)
		p.hooks.fireCalculated(c)
	}

	result, ok := c.Result()
	if !ok {
		return Record{}, fmt.Errorf("target %q: %w", target.Name(), ErrNoResult)
	}

	p.hooks.firePreApply(req, target, result)

	// Positive result = damage = pool decreases. Absorption's negative
	// result flips this into a positive (healing) delta.
	delta := -result

	rec := Record{
		ID:         uuid.New(),
		RequestID:  req.ID,
		SourceName: req.SourceDescriptor().Name,
		TargetName: target.Name(),
		DamageType: req.DamageType(),
		Tier:       c.Tier,
		Message:    c.Message,
		Applied:    math.Abs(result),
		Delta:      delta,
		CreatedAt:  time.Now().UTC(),
	}
	rec.TypeTag = p.renderer.TypeTag(rec.DamageType, rec.Tier)
	rec.Summary = p.renderer.AppliedSummary(rec)

	p.logger.Debug("damage resolved",
		zap.String("request_id", req.ID.String()),
		zap.String("target", rec.TargetName),
		zap.String("type", rec.DamageType),
		zap.String("tier", rec.Tier.String()),
		zap.Float64("result", result),
	)
	return rec, nil
}
