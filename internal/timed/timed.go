// Package timed holds the window math shared by every timed action
// (training, pregnancy, exploration). Progress is always recomputed from
// (started_at, completes_at, now); stored progress fields are caches.
package timed

import "time"

// Progress returns completion in percent, clamped to [0,100].
func Progress(startedAt, completesAt, now time.Time) float64 {
	total := completesAt.Sub(startedAt).Seconds()
	if total <= 0 {
		return 100
	}
	p := now.Sub(startedAt).Seconds() / total * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Ready reports whether the window has elapsed. The bound is closed: an
// action completing exactly now is ready.
func Ready(completesAt, now time.Time) bool {
	return !now.Before(completesAt)
}

// Remaining is the time left in the window, floored at zero.
func Remaining(completesAt, now time.Time) time.Duration {
	d := completesAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
