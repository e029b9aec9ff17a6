// Package incident spawns vault emergencies and spreads them through
// adjacent rooms until resolved.
package incident

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSpreading Status = "SPREADING"
	StatusResolved  Status = "RESOLVED"
	StatusFailed    Status = "FAILED"
)

type Incident struct {
	ID      string `json:"id"`
	VaultID string `json:"vault_id"`
	Type    string `json:"type"`

	Difficulty int    `json:"difficulty"` // 1-10
	Status     Status `json:"status"`

	StartedAt    time.Time  `json:"started_at"`
	LastSpreadAt *time.Time `json:"last_spread_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`

	// Rooms touched so far, origin first. A room appears at most once.
	RoomIDs []string `json:"room_ids"`

	// Seconds between spread steps, fixed at spawn from the type config.
	SpreadIntervalSeconds int `json:"spread_interval_seconds"`
}

// Live reports whether the incident is still doing damage.
func (i *Incident) Live() bool {
	return i.Status == StatusActive || i.Status == StatusSpreading
}

// ShouldSpread is the spread predicate: a live incident spreads when the
// interval has elapsed since the later of start and last spread.
func (i *Incident) ShouldSpread(now time.Time, maxSpreadCount int) bool {
	if !i.Live() {
		return false
	}
	if len(i.RoomIDs) >= 1+maxSpreadCount {
		return false
	}
	since := i.StartedAt
	if i.LastSpreadAt != nil {
		since = *i.LastSpreadAt
	}
	return now.Sub(since) >= time.Duration(i.SpreadIntervalSeconds)*time.Second
}

// AddRoom appends a room exactly once. Returns false when already present.
func (i *Incident) AddRoom(roomID string) bool {
	for _, id := range i.RoomIDs {
		if id == roomID {
			return false
		}
	}
	i.RoomIDs = append(i.RoomIDs, roomID)
	return true
}
