package quest

import "time"

// Completable is anything with a latched completion state. Objectives,
// quests and chains all implement it; the cascade walks them as one shape
// instead of each level re-implementing the transition.
type Completable interface {
	IsComplete() bool
	// MarkComplete latches completion. Returns false when already latched.
	MarkComplete(now time.Time) bool
}

func (o *Objective) IsComplete() bool { return o.Complete }

func (o *Objective) MarkComplete(now time.Time) bool {
	if o.Complete {
		return false
	}
	o.Complete = true
	o.CurrentCount = o.TargetCount
	o.CompletedAt = &now
	return true
}

func (q *Quest) IsComplete() bool { return q.Status == StatusComplete }

func (q *Quest) MarkComplete(now time.Time) bool {
	if q.Status == StatusComplete {
		return false
	}
	q.Status = StatusComplete
	q.CompletedAt = &now
	return true
}

func (c *Chain) IsComplete() bool { return c.Status == StatusComplete }

func (c *Chain) MarkComplete(now time.Time) bool {
	if c.Status == StatusComplete {
		return false
	}
	c.Status = StatusComplete
	c.CompletedAt = &now
	return true
}
