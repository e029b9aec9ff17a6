// Package training implements stat training, the first of the three timed
// actions. One active training per dweller; completing applies the stat
// increase exactly once.
package training

import (
	"time"

	"overseer/internal/dweller"
	"overseer/internal/timed"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type Training struct {
	ID        string       `json:"id"`
	VaultID   string       `json:"vault_id"`
	DwellerID string       `json:"dweller_id"`
	RoomID    string       `json:"room_id"`
	Stat      dweller.Stat `json:"stat_being_trained"`

	// Snapshot at start; the target is always one point above it.
	CurrentStatValue int `json:"current_stat_value"`
	TargetStatValue  int `json:"target_stat_value"`

	// Cache only; the window is the source of truth.
	Progress float64 `json:"progress"`

	StartedAt   time.Time  `json:"started_at"`
	CompletesAt time.Time  `json:"estimated_completion_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      Status     `json:"status"`
}

// ProgressPercentage derives progress from the window. Terminal states pin
// the value: completed is 100, cancelled is 0.
func (t *Training) ProgressPercentage(now time.Time) float64 {
	switch t.Status {
	case StatusCompleted:
		return 100
	case StatusCancelled:
		return 0
	}
	return timed.Progress(t.StartedAt, t.CompletesAt, now)
}

// ReadyToComplete reports whether the window has elapsed on an active
// training.
func (t *Training) ReadyToComplete(now time.Time) bool {
	return t.Status == StatusActive && timed.Ready(t.CompletesAt, now)
}
