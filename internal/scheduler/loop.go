package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/me/servq/internal/notify"
	"github.com/me/servq/pkg/model"
)

// Config holds dispatch loop configuration.
type Config struct {
	// PollInterval is how long the loop waits before re-checking an empty
	// queue (or retrying after a staffing gap).
	PollInterval time.Duration

	// MinuteInterval is the wall-clock duration of one simulated minute.
	MinuteInterval time.Duration
}

// DefaultConfig returns sensible defaults: 500ms polling, 100ms per
// simulated minute (the original demo speed).
func DefaultConfig() Config {
	return Config{
		PollInterval:   500 * time.Millisecond,
		MinuteInterval: 100 * time.Millisecond,
	}
}

// Recorder receives each completed task exactly once. Implemented by the
// archive; nil disables recording.
type Recorder interface {
	Record(ctx context.Context, task model.Task) error
}

// Loop is the dispatch loop: a single logical worker that repeatedly takes
// the head of the scheduled order and simulates its execution. Exactly one
// run may be active per Loop; Start while running and Stop while idle are
// no-ops.
type Loop struct {
	core     *Core
	pools    map[model.Tier][]string
	cfg      Config
	sink     notify.Sink
	recorder Recorder
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	rng    *rand.Rand
}

// LoopOption configures optional Loop dependencies.
type LoopOption func(*Loop)

// WithLoopSink sets the notification sink. Defaults to notify.Nop.
func WithLoopSink(s notify.Sink) LoopOption {
	return func(l *Loop) { l.sink = s }
}

// WithRecorder sets the completion recorder.
func WithRecorder(r Recorder) LoopOption {
	return func(l *Loop) { l.recorder = r }
}

// WithLoopRand overrides the random source used for worker assignment.
func WithLoopRand(rng *rand.Rand) LoopOption {
	return func(l *Loop) { l.rng = rng }
}

// NewLoop creates a dispatch loop over core. pools maps each tier to its
// statically registered workers; an empty pool makes every task of that tier
// wait until workers are configured.
func NewLoop(core *Core, pools map[model.Tier][]string, cfg Config, logger *slog.Logger, opts ...LoopOption) *Loop {
	l := &Loop{
		core:   core,
		pools:  pools,
		cfg:    cfg,
		sink:   notify.Nop{},
		logger: logger.With("component", "dispatch"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins the loop in a background goroutine. Calling Start while a run
// is active changes nothing. The run stops when ctx is cancelled or Stop is
// called.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.logger.Debug("start ignored, already running")
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	runID := "run_" + uuid.New().String()[:8]
	l.logger.Info("dispatch started",
		"run_id", runID,
		"poll_interval", l.cfg.PollInterval,
		"minute_interval", l.cfg.MinuteInterval)

	go func() {
		defer close(done)
		defer l.clear()
		l.run(runCtx, runID)
	}()
}

// Stop halts the loop and waits for the run goroutine to exit. Calling Stop
// on an idle loop changes nothing. An in-flight task remains pending; its
// partial progress is discarded.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.logger.Info("dispatch stopped")
}

// Running reports whether a run is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// clear resets the lifecycle fields after a run exits.
func (l *Loop) clear() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
		l.done = nil
	}
	l.mu.Unlock()
}

// run is the loop body. One task is processed end-to-end per iteration; the
// cancellation signal is observed at every simulated minute, bounding stop
// latency to one MinuteInterval.
func (l *Loop) run(ctx context.Context, runID string) {
	logger := l.logger.With("run_id", runID)
	for {
		if ctx.Err() != nil {
			l.sink.CurrentTaskChanged(nil)
			return
		}

		order := l.core.ScheduledOrder()
		if len(order) == 0 {
			l.sink.CurrentTaskChanged(nil)
			if !l.sleep(ctx, l.cfg.PollInterval) {
				return
			}
			continue
		}

		head := order[0]
		worker, err := l.pickWorker(head.Tier)
		if err != nil {
			// Transient staffing gap: the task stays pending and is retried
			// next cycle rather than halting the queue.
			logger.Warn("task skipped this cycle", "task_id", head.ID, "tier", head.Tier, "error", err)
			if !l.sleep(ctx, l.cfg.PollInterval) {
				l.sink.CurrentTaskChanged(nil)
				return
			}
			continue
		}

		if err := l.core.Assign(head.ID, worker); err != nil {
			// Cleared or completed between ScheduledOrder and here.
			logger.Debug("head vanished before dispatch", "task_id", head.ID)
			continue
		}
		head.Worker = worker
		logger.Info("now serving",
			"task_id", head.ID, "room", head.Room, "tier", head.Tier,
			"worker", worker, "charge", head.Charge)
		l.sink.CurrentTaskChanged(&head)

		if !l.simulate(ctx, head) {
			// Cancelled mid-execution: discard partial work and exit.
			l.sink.Progress(0)
			l.sink.CurrentTaskChanged(nil)
			logger.Info("dispatch cancelled mid-task", "task_id", head.ID)
			return
		}

		task, err := l.core.Complete(head.ID, head.EstimatedMinutes, worker)
		if err != nil {
			logger.Warn("complete failed", "task_id", head.ID, "error", err)
		} else if l.recorder != nil {
			if err := l.recorder.Record(ctx, task); err != nil {
				logger.Error("record completion", "task_id", task.ID, "error", err)
			}
		}
		l.sink.Progress(0)
		l.sink.CurrentTaskChanged(nil)
		// No delay: evaluate the next head immediately.
	}
}

// simulate advances progress one simulated minute at a time, reporting
// percent complete after each. Returns false if ctx was cancelled.
func (l *Loop) simulate(ctx context.Context, task model.Task) bool {
	timer := time.NewTimer(l.cfg.MinuteInterval)
	defer timer.Stop()
	for i := 0; i < task.EstimatedMinutes; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
		l.sink.Progress((i + 1) * 100 / task.EstimatedMinutes)
		timer.Reset(l.cfg.MinuteInterval)
	}
	return true
}

// pickWorker chooses a random worker from the tier's pool.
func (l *Loop) pickWorker(tier model.Tier) (string, error) {
	pool := l.pools[tier]
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: tier %s has an empty pool", model.ErrNoWorkerAvailable, tier)
	}
	l.mu.Lock()
	w := pool[l.rng.Intn(len(pool))]
	l.mu.Unlock()
	return w, nil
}

// sleep waits for d or until ctx is cancelled. Returns false on cancellation.
func (l *Loop) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
