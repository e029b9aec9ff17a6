package timed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressClamps(t *testing.T) {
	start := time.Date(2280, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.Equal(t, 0.0, Progress(start, end, start.Add(-time.Minute)))
	assert.Equal(t, 50.0, Progress(start, end, start.Add(30*time.Minute)))
	assert.Equal(t, 100.0, Progress(start, end, end.Add(time.Hour)))
}

func TestProgressDegenerateWindow(t *testing.T) {
	at := time.Now()
	assert.Equal(t, 100.0, Progress(at, at, at))
}

func TestReadyIsClosedBound(t *testing.T) {
	end := time.Date(2280, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Ready(end, end.Add(-time.Second)))
	assert.True(t, Ready(end, end), "exactly at completes_at counts as ready")
	assert.True(t, Ready(end, end.Add(time.Second)))
}

func TestRemainingFloorsAtZero(t *testing.T) {
	end := time.Now()
	assert.Equal(t, time.Duration(0), Remaining(end, end.Add(time.Hour)))
	assert.Equal(t, time.Hour, Remaining(end, end.Add(-time.Hour)))
}
