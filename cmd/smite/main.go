// Package main provides the smite binary: it loads content, actors, and rule
// scripts, resolves a damage request through the pipeline, and reports the
// per-target outcomes.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/emberfell/smite/internal/config"
	"github.com/emberfell/smite/internal/game/actor"
	"github.com/emberfell/smite/internal/game/damage"
	"github.com/emberfell/smite/internal/game/ruleset"
	"github.com/emberfell/smite/internal/observability"
	"github.com/emberfell/smite/internal/render"
	"github.com/emberfell/smite/internal/scripting"
	"github.com/emberfell/smite/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	actorsPath := flag.String("actors", "content/actors.yaml", "path to actor roster YAML file")
	requestPath := flag.String("request", "content/requests/example.yaml", "path to damage request YAML file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rules, err := ruleset.LoadDirectory(cfg.Content.DamageTypes)
	if err != nil {
		logger.Fatal("loading damage types", zap.Error(err))
	}
	logger.Info("damage types loaded",
		zap.Int("count", rules.Len()),
		zap.String("dir", cfg.Content.DamageTypes),
	)

	roster, err := actor.LoadRoster(*actorsPath)
	if err != nil {
		logger.Fatal("loading actor roster", zap.Error(err))
	}
	logger.Info("actors loaded", zap.Int("count", len(roster)))

	hooks := damage.NewHooks()
	if cfg.Scripting.Scripts != "" {
		mgr := scripting.NewManager(logger)
		if err := mgr.LoadDir(cfg.Scripting.Scripts, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading rule scripts", zap.Error(err))
		}
		defer mgr.Close()
		mgr.Bind(hooks)
		logger.Info("rule scripts bound", zap.String("dir", cfg.Scripting.Scripts))
	}

	var recorder damage.Recorder = &logRecorder{logger: logger}
	if cfg.Audit.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to audit database", zap.Error(err))
		}
		defer pool.Close()
		recorder = postgres.NewResolutionRepository(pool.DB())
		logger.Info("audit persistence enabled")
	}

	req, err := loadRequest(*requestPath, roster)
	if err != nil {
		logger.Fatal("loading request", zap.Error(err))
	}

	pipeline := damage.NewPipeline(hooks, render.NewText(rules), recorder, logger)
	records, err := pipeline.Process(ctx, req)
	if err != nil {
		logger.Fatal("processing request", zap.Error(err))
	}

	for _, rec := range records {
		fmt.Println(rec.Summary)
	}
	logger.Info("request resolved",
		zap.Int("targets", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// logRecorder emits records to the structured log instead of persisting them.
type logRecorder struct {
	logger *zap.Logger
}

func (r *logRecorder) CreateRecord(_ context.Context, rec damage.Record) error {
	r.logger.Info("resolution recorded",
		zap.String("target", rec.TargetName),
		zap.String("type", rec.DamageType),
		zap.String("tier", rec.Tier.String()),
		zap.Float64("applied", rec.Applied),
		zap.Float64("delta", rec.Delta),
		zap.String("summary", rec.Summary),
	)
	return nil
}

// requestFile is the YAML shape of a damage request. Actor references are
// roster IDs.
type requestFile struct {
	Source  string   `yaml:"source"`
	Targets []string `yaml:"targets"`
	Base    struct {
		Total         float64 `yaml:"total"`
		Type          string  `yaml:"type"`
		ModifierTotal float64 `yaml:"modifier_total"`
		Bonus         float64 `yaml:"bonus"`
	} `yaml:"base"`
	Extra struct {
		Amount              float64  `yaml:"amount"`
		HRZero              bool     `yaml:"hr_zero"`
		Targets             []string `yaml:"targets"`
		IgnoreResistance    bool     `yaml:"ignore_resistance"`
		IgnoreImmunity      bool     `yaml:"ignore_immunity"`
		IgnoreVulnerability bool     `yaml:"ignore_vulnerability"`
		IgnoreAbsorption    bool     `yaml:"ignore_absorption"`
	} `yaml:"extra"`
	Traits    []string `yaml:"traits"`
	Overrides struct {
		Affinity *string  `yaml:"affinity"`
		Total    *float64 `yaml:"total"`
	} `yaml:"overrides"`
}

// loadRequest parses a request file and resolves its actor references
// against the roster.
func loadRequest(path string, roster map[string]*actor.Actor) (*damage.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request %q: %w", path, err)
	}

	var rf requestFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("parsing request %q: %w", path, err)
	}

	var source damage.Source
	if rf.Source != "" {
		src, ok := roster[rf.Source]
		if !ok {
			return nil, fmt.Errorf("request %q: unknown source actor %q", path, rf.Source)
		}
		source = src
	}

	targets, err := resolveTargets(roster, rf.Targets)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", path, err)
	}
	extraTargets, err := resolveTargets(roster, rf.Extra.Targets)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", path, err)
	}

	base := damage.Base{
		Total:         rf.Base.Total,
		Type:          rf.Base.Type,
		ModifierTotal: rf.Base.ModifierTotal,
		Bonus:         rf.Base.Bonus,
	}
	extra := damage.Extra{
		Amount:              rf.Extra.Amount,
		HRZero:              rf.Extra.HRZero,
		Targets:             extraTargets,
		IgnoreResistance:    rf.Extra.IgnoreResistance,
		IgnoreImmunity:      rf.Extra.IgnoreImmunity,
		IgnoreVulnerability: rf.Extra.IgnoreVulnerability,
		IgnoreAbsorption:    rf.Extra.IgnoreAbsorption,
	}

	var ov damage.Overrides
	if rf.Overrides.Affinity != nil {
		tier, ok := damage.ParseTier(*rf.Overrides.Affinity)
		if !ok {
			return nil, fmt.Errorf("request %q: unknown affinity override %q", path, *rf.Overrides.Affinity)
		}
		ov.Affinity = &tier
	}
	ov.Total = rf.Overrides.Total

	req := damage.NewRequest(source, targets, base, extra, ov)
	for _, trait := range rf.Traits {
		req.AddTrait(trait)
	}
	return req, nil
}

func resolveTargets(roster map[string]*actor.Actor, ids []string) ([]damage.Target, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	targets := make([]damage.Target, 0, len(ids))
	for _, id := range ids {
		a, ok := roster[id]
		if !ok {
			return nil, fmt.Errorf("unknown target actor %q", id)
		}
		targets = append(targets, a)
	}
	return targets, nil
}
