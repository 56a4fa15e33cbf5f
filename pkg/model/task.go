package model

import "time"

// TaskStatus is the lifecycle state of a Task. The only transition is
// Pending → Completed.
type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskCompleted TaskStatus = "Completed"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// Task is an admitted service request against a room. Rank and Charge are
// snapshots taken from the room's tier metadata at admission and never change
// afterward, even if policy or tier metadata change. IDs are assigned from a
// monotonic counter and never reused.
type Task struct {
	ID               int64      `json:"id"`
	Room             string     `json:"room"`
	Tier             Tier       `json:"tier"`
	Type             string     `json:"type"`
	Rank             int        `json:"rank"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Description      string     `json:"description,omitempty"`
	Status           TaskStatus `json:"status"`
	Worker           string     `json:"worker,omitempty"`
	ActualMinutes    int        `json:"actual_minutes,omitempty"`
	Charge           float64    `json:"charge"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// TierStats aggregates completed work for one tier.
type TierStats struct {
	Tier         Tier    `json:"tier"`
	Completed    int     `json:"completed"`
	TotalMinutes int     `json:"total_minutes"`
	Revenue      float64 `json:"revenue"`
}
