// Package intake provides a scheduled request generator. It stands in for
// interactive quick-add traffic: on every cron tick it admits one randomly
// chosen preset against a random room of the preset's tier.
package intake

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/me/servq/internal/scheduler"
	"github.com/me/servq/pkg/model"
)

// Preset is one canned service request.
type Preset struct {
	Tier    model.Tier
	Type    string
	Minutes int
}

// Generator admits preset requests on a cron schedule.
type Generator struct {
	core    *scheduler.Core
	presets []Preset
	cron    *cron.Cron
	logger  *slog.Logger
	rng     *rand.Rand
}

// New creates a generator. The schedule is a standard 5-field cron spec and
// is validated here.
func New(core *scheduler.Core, presets []Preset, schedule string, logger *slog.Logger) (*Generator, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("intake: no presets configured")
	}
	g := &Generator{
		core:    core,
		presets: presets,
		cron:    cron.New(),
		logger:  logger.With("component", "intake"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if _, err := g.cron.AddFunc(schedule, g.tick); err != nil {
		return nil, fmt.Errorf("intake: bad schedule %q: %w", schedule, err)
	}
	return g, nil
}

// Start begins scheduled admission.
func (g *Generator) Start() {
	g.cron.Start()
	g.logger.Info("intake generator started", "presets", len(g.presets))
}

// Stop halts the schedule and waits for an in-flight tick to finish.
func (g *Generator) Stop() {
	ctx := g.cron.Stop()
	<-ctx.Done()
	g.logger.Info("intake generator stopped")
}

// Tick runs one generation cycle immediately, outside the schedule.
func (g *Generator) Tick() {
	g.tick()
}

// tick admits one random preset.
func (g *Generator) tick() {
	p := g.presets[g.rng.Intn(len(g.presets))]
	task, err := g.core.QuickAdmit(p.Tier, p.Type, p.Minutes, "")
	if err != nil {
		g.logger.Error("auto admission failed", "tier", p.Tier, "type", p.Type, "error", err)
		return
	}
	g.logger.Info("auto admitted", "task_id", task.ID, "room", task.Room, "type", task.Type)
}
