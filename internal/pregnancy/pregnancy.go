// Package pregnancy implements the second timed action. Pregnancies have no
// cancel path: delivery is the only terminal transition.
package pregnancy

import (
	"time"

	"overseer/internal/timed"
)

type Status string

const (
	StatusPregnant  Status = "PREGNANT"
	StatusDelivered Status = "DELIVERED"
)

type Pregnancy struct {
	ID       string `json:"id"`
	VaultID  string `json:"vault_id"`
	MotherID string `json:"mother_id"`
	FatherID string `json:"father_id"`

	ConceivedAt time.Time  `json:"conceived_at"`
	DueAt       time.Time  `json:"due_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	Status      Status     `json:"status"`

	ChildID *string `json:"child_id,omitempty"`
}

// IsDue reports whether delivery may happen. Derived, never stored.
func (p *Pregnancy) IsDue(now time.Time) bool {
	return p.Status == StatusPregnant && timed.Ready(p.DueAt, now)
}

// ProgressPercentage derives gestation progress; delivered pregnancies
// report 100.
func (p *Pregnancy) ProgressPercentage(now time.Time) float64 {
	if p.Status == StatusDelivered {
		return 100
	}
	return timed.Progress(p.ConceivedAt, p.DueAt, now)
}

// TimeRemainingSeconds until due, floored at zero.
func (p *Pregnancy) TimeRemainingSeconds(now time.Time) float64 {
	return timed.Remaining(p.DueAt, now).Seconds()
}
