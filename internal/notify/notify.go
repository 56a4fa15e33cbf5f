// Package notify defines the presentation sink boundary. The scheduler core
// and dispatch loop push state changes through a Sink; the embedding
// application decides how to render them. Sink calls must return quickly --
// a sink doing expensive work should hand off asynchronously itself.
package notify

import (
	"log/slog"

	"github.com/me/servq/pkg/model"
)

// Sink receives state-change notifications from the scheduler core and the
// dispatch loop. A nil current task means nothing is being served.
type Sink interface {
	QueueChanged(pending, completed []model.Task)
	CurrentTaskChanged(task *model.Task)
	Progress(percent int)
}

// Nop is a Sink that discards everything.
type Nop struct{}

func (Nop) QueueChanged(pending, completed []model.Task) {}
func (Nop) CurrentTaskChanged(task *model.Task)          {}
func (Nop) Progress(percent int)                         {}

// Multi fans every notification out to each sink in order.
type Multi []Sink

func (m Multi) QueueChanged(pending, completed []model.Task) {
	for _, s := range m {
		s.QueueChanged(pending, completed)
	}
}

func (m Multi) CurrentTaskChanged(task *model.Task) {
	for _, s := range m {
		s.CurrentTaskChanged(task)
	}
}

func (m Multi) Progress(percent int) {
	for _, s := range m {
		s.Progress(percent)
	}
}

// LogSink writes notifications to a slog.Logger. Queue and current-task
// changes log at INFO; progress ticks at DEBUG to keep the log readable.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "sink")}
}

func (l *LogSink) QueueChanged(pending, completed []model.Task) {
	l.logger.Info("queue changed", "pending", len(pending), "completed", len(completed))
}

func (l *LogSink) CurrentTaskChanged(task *model.Task) {
	if task == nil {
		l.logger.Info("no current task")
		return
	}
	l.logger.Info("now serving",
		"task_id", task.ID,
		"room", task.Room,
		"tier", task.Tier,
		"type", task.Type,
		"worker", task.Worker,
		"charge", task.Charge,
	)
}

func (l *LogSink) Progress(percent int) {
	l.logger.Debug("progress", "percent", percent)
}
