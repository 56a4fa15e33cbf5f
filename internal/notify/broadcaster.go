package notify

import (
	"log/slog"
	"sync"

	"github.com/me/servq/pkg/model"
)

// EventType identifies a broadcast event.
type EventType string

const (
	EventQueue    EventType = "queue"
	EventCurrent  EventType = "current"
	EventProgress EventType = "progress"
)

// Event is the wire form of a notification pushed to subscribers.
type Event struct {
	Type      EventType    `json:"type"`
	Pending   []model.Task `json:"pending,omitempty"`
	Completed []model.Task `json:"completed,omitempty"`
	Current   *model.Task  `json:"current,omitempty"`
	Percent   int          `json:"percent,omitempty"`
}

// Broadcaster is a Sink that fans events out to any number of subscribers
// (SSE connections, tests). Delivery is best-effort: a subscriber whose
// buffer is full has the event dropped so a slow client can never block the
// dispatch loop.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	logger *slog.Logger
}

// subscriberBuffer is the per-subscriber channel depth before drops start.
const subscriberBuffer = 16

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[chan Event]struct{}),
		logger: logger.With("component", "broadcaster"),
	}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the subscriber goes away; the channel is closed by it.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Debug("subscriber buffer full, event dropped", "type", ev.Type)
		}
	}
}

func (b *Broadcaster) QueueChanged(pending, completed []model.Task) {
	b.publish(Event{Type: EventQueue, Pending: pending, Completed: completed})
}

func (b *Broadcaster) CurrentTaskChanged(task *model.Task) {
	b.publish(Event{Type: EventCurrent, Current: task})
}

func (b *Broadcaster) Progress(percent int) {
	b.publish(Event{Type: EventProgress, Percent: percent})
}
