// Package scheduler holds the pending and completed request collections and
// the dispatch loop that drains them. The Core computes priority and charge
// at admission time and produces an ordered view of the pending collection
// under one of four policies; the Loop picks the head and simulates
// execution.
package scheduler

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/me/servq/internal/catalog"
	"github.com/me/servq/internal/notify"
	"github.com/me/servq/pkg/model"
)

// Core owns the pending/completed collections, the task ID counter, and the
// current policy. All reads and mutations are serialized by one mutex; sink
// notifications are made after the lock is released so a sink may call back
// into the Core.
type Core struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	pending   []*model.Task // admission order; policy order is computed on demand
	completed []model.Task
	nextID    int64
	policy    model.Policy
	quantum   int

	sink   notify.Sink
	logger *slog.Logger
	now    func() time.Time
	rng    *rand.Rand
}

// CoreOption configures optional Core dependencies.
type CoreOption func(*Core)

// WithSink sets the notification sink. Defaults to notify.Nop.
func WithSink(s notify.Sink) CoreOption {
	return func(c *Core) { c.sink = s }
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) CoreOption {
	return func(c *Core) { c.now = now }
}

// WithPolicy sets the initial policy. Defaults to Priority.
func WithPolicy(p model.Policy) CoreOption {
	return func(c *Core) { c.policy = p }
}

// WithQuantum sets the round-robin time quantum, in minutes.
func WithQuantum(n int) CoreOption {
	return func(c *Core) { c.quantum = n }
}

// WithRand overrides the random source used by QuickAdmit.
func WithRand(rng *rand.Rand) CoreOption {
	return func(c *Core) { c.rng = rng }
}

// NewCore creates a scheduler core over the given catalog.
func NewCore(cat *catalog.Catalog, logger *slog.Logger, opts ...CoreOption) *Core {
	c := &Core{
		catalog: cat,
		nextID:  1,
		policy:  model.PolicyPriority,
		quantum: 15,
		sink:    notify.Nop{},
		logger:  logger.With("component", "core"),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Admit validates and admits a service request. The returned Task is a copy;
// the caller cannot mutate scheduler state through it. On failure nothing is
// inserted.
func (c *Core) Admit(room, taskType string, estimatedMinutes int, description string) (model.Task, error) {
	if estimatedMinutes <= 0 {
		return model.Task{}, fmt.Errorf("%w: got %d", model.ErrInvalidDuration, estimatedMinutes)
	}
	res, err := c.catalog.Lookup(room)
	if err != nil {
		return model.Task{}, err
	}
	info, ok := c.catalog.TierInfo(res.Tier)
	if !ok {
		// Catalog initialization guarantees metadata for every room's tier.
		return model.Task{}, fmt.Errorf("%w: no metadata for tier %s", model.ErrConfigurationConflict, res.Tier)
	}

	c.mu.Lock()
	task := model.Task{
		ID:               c.nextID,
		Room:             res.Number,
		Tier:             res.Tier,
		Type:             taskType,
		Rank:             info.Rank,
		EstimatedMinutes: estimatedMinutes,
		Description:      description,
		Status:           model.TaskPending,
		Charge:           info.Charge(),
		CreatedAt:        c.now(),
	}
	c.nextID++
	stored := task
	c.pending = append(c.pending, &stored)
	pending, completed := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.catalog.AppendHistory(res.Number, task.ID); err != nil {
		c.logger.Error("append history", "room", res.Number, "error", err)
	}
	c.logger.Info("task admitted",
		"task_id", task.ID, "room", task.Room, "tier", task.Tier,
		"type", task.Type, "minutes", task.EstimatedMinutes, "charge", task.Charge)
	c.sink.QueueChanged(pending, completed)
	return task, nil
}

// QuickAdmit admits a request against a random room of the given tier.
func (c *Core) QuickAdmit(tier model.Tier, taskType string, estimatedMinutes int, description string) (model.Task, error) {
	rooms := c.catalog.ListByTier(tier)
	if len(rooms) == 0 {
		return model.Task{}, fmt.Errorf("%w: no rooms in tier %s", model.ErrUnknownResource, tier)
	}
	c.mu.Lock()
	room := rooms[c.rng.Intn(len(rooms))]
	c.mu.Unlock()
	if description == "" {
		description = fmt.Sprintf("Auto-generated %s for %s", taskType, tier)
	}
	return c.Admit(room, taskType, estimatedMinutes, description)
}

// SetPolicy switches the ordering policy. Existing tasks are untouched; only
// the function used by ScheduledOrder changes.
func (c *Core) SetPolicy(p model.Policy) error {
	if !p.Valid() {
		return fmt.Errorf("unknown policy %q", p)
	}
	c.mu.Lock()
	c.policy = p
	c.mu.Unlock()
	c.logger.Info("policy changed", "policy", p)
	return nil
}

// Policy returns the current policy.
func (c *Core) Policy() model.Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy
}

// SetQuantum records the round-robin time quantum, in minutes. Informational
// only; dispatch order is unaffected.
func (c *Core) SetQuantum(n int) {
	c.mu.Lock()
	c.quantum = n
	c.mu.Unlock()
}

// Quantum returns the round-robin time quantum.
func (c *Core) Quantum() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quantum
}

// ScheduledOrder returns the pending tasks ordered under the current policy.
// The order is recomputed on every call; membership and timestamps may have
// changed since the last one. Returned tasks are copies.
func (c *Core) ScheduledOrder() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.pending))
	for i, t := range c.pending {
		out[i] = *t
	}
	less := orderFunc(c.policy)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// orderFunc returns the strict-weak ordering for a policy. Equal keys keep
// admission order via the stable sort.
func orderFunc(p model.Policy) func(a, b model.Task) bool {
	switch p {
	case model.PolicyFCFS:
		return func(a, b model.Task) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case model.PolicyShortestJobFirst:
		return func(a, b model.Task) bool {
			if a.EstimatedMinutes != b.EstimatedMinutes {
				return a.EstimatedMinutes < b.EstimatedMinutes
			}
			if a.Rank != b.Rank {
				return a.Rank < b.Rank
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	default:
		// Priority and RoundRobin share one ordering; the quantum never
		// reorders or preempts.
		return func(a, b model.Task) bool {
			if a.Rank != b.Rank {
				return a.Rank < b.Rank
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
}

// Completed returns the completed tasks in completion order.
func (c *Core) Completed() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Task(nil), c.completed...)
}

// Pending returns the number of pending tasks.
func (c *Core) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Get returns a pending or completed task by ID.
func (c *Core) Get(id int64) (model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.pending {
		if t.ID == id {
			return *t, nil
		}
	}
	for _, t := range c.completed {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("%w: id %d", model.ErrUnknownTask, id)
}

// Assign records the worker serving a pending task. Called by the dispatch
// loop when execution begins.
func (c *Core) Assign(id int64, worker string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.pending {
		if t.ID == id {
			t.Worker = worker
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", model.ErrUnknownTask, id)
}

// Complete moves a pending task to the completed collection, setting status,
// actual duration, and worker. Fails with model.ErrUnknownTask if the ID is
// not pending.
func (c *Core) Complete(id int64, actualMinutes int, worker string) (model.Task, error) {
	c.mu.Lock()
	idx := -1
	for i, t := range c.pending {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("%w: id %d", model.ErrUnknownTask, id)
	}
	t := c.pending[idx]
	c.pending = append(c.pending[:idx], c.pending[idx+1:]...)
	t.Status = model.TaskCompleted
	t.ActualMinutes = actualMinutes
	t.Worker = worker
	done := c.now()
	t.CompletedAt = &done
	c.completed = append(c.completed, *t)
	task := *t
	pending, completed := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("task completed",
		"task_id", task.ID, "room", task.Room, "worker", worker, "minutes", actualMinutes)
	c.sink.QueueChanged(pending, completed)
	return task, nil
}

// ClearAll empties both collections. The ID counter is not reset.
func (c *Core) ClearAll() {
	c.mu.Lock()
	c.pending = nil
	c.completed = nil
	pending, completed := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("all tasks cleared")
	c.sink.QueueChanged(pending, completed)
}

// snapshotLocked builds copies of both collections for sink delivery.
// Pending is reported in current policy order. Caller must hold c.mu.
func (c *Core) snapshotLocked() (pending, completed []model.Task) {
	pending = make([]model.Task, len(c.pending))
	for i, t := range c.pending {
		pending[i] = *t
	}
	less := orderFunc(c.policy)
	sort.SliceStable(pending, func(i, j int) bool { return less(pending[i], pending[j]) })
	completed = append([]model.Task(nil), c.completed...)
	return pending, completed
}
