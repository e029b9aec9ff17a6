// Package exploration implements wasteland trips, the third timed action.
// Events and loot are append-only logs; the dweller's SPECIAL is snapshotted
// at departure so later training doesn't rewrite history.
package exploration

import (
	"time"

	"overseer/internal/dweller"
	"overseer/internal/timed"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusRecalled  Status = "RECALLED"
)

// Event is one log line from the wasteland.
type Event struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// Loot is one item found on a trip.
type Loot struct {
	Item  string `json:"item"`
	Value int    `json:"value"` // caps when sold
}

type Exploration struct {
	ID        string `json:"id"`
	VaultID   string `json:"vault_id"`
	DwellerID string `json:"dweller_id"`

	DurationHours int       `json:"duration"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        Status    `json:"status"`

	// Append-only.
	Events        []Event `json:"events"`
	LootCollected []Loot  `json:"loot_collected"`

	// Departure snapshot.
	SpecialSnapshot dweller.Special `json:"special_snapshot"`
}

// ProgressPercentage derives trip progress; terminal trips report 100.
func (e *Exploration) ProgressPercentage(now time.Time) float64 {
	if e.Status != StatusActive {
		return 100
	}
	return timed.Progress(e.StartTime, e.EndTime, now)
}

// ReadyToComplete reports whether an active trip has run its course.
func (e *Exploration) ReadyToComplete(now time.Time) bool {
	return e.Status == StatusActive && timed.Ready(e.EndTime, now)
}

// HoursOut is how long the dweller has been outside, capped at the planned
// duration.
func (e *Exploration) HoursOut(now time.Time) float64 {
	h := now.Sub(e.StartTime).Hours()
	if h < 0 {
		return 0
	}
	if max := float64(e.DurationHours); h > max {
		return max
	}
	return h
}
