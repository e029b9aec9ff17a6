package gamestate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overseer/internal/gameerr"
)

func newStore(now *time.Time) *Store {
	return &Store{Repo: NewMemoryRepo(), Now: func() time.Time { return *now }}
}

func TestGetOrCreate(t *testing.T) {
	now := time.Date(2280, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newStore(&now)
	ctx := context.Background()

	g, err := s.GetOrCreate(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, g.IsActive)
	assert.False(t, g.IsPaused)
	assert.Equal(t, now, g.LastTickTime)

	again, err := s.GetOrCreate(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, g, again)
}

func TestPauseTwiceKeepsOriginalPausedAt(t *testing.T) {
	now := time.Date(2280, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newStore(&now)
	ctx := context.Background()

	g, err := s.Pause(ctx, "v1")
	require.NoError(t, err)
	first := *g.PausedAt

	now = now.Add(time.Hour)
	_, err = s.Pause(ctx, "v1")
	assert.True(t, gameerr.IsNoChange(err))

	g, err = s.GetOrCreate(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, first, *g.PausedAt, "second pause must not move paused_at")
}

func TestResumeSkipsThePausedWindow(t *testing.T) {
	now := time.Date(2280, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newStore(&now)
	ctx := context.Background()

	_, err := s.Pause(ctx, "v1")
	require.NoError(t, err)

	now = now.Add(6 * time.Hour)
	g, err := s.Resume(ctx, "v1")
	require.NoError(t, err)

	assert.False(t, g.IsPaused)
	assert.Equal(t, now, g.LastTickTime, "paused hours are not simulated")
	assert.Equal(t, 0.0, s.OfflineSeconds(g))
}

func TestResumeWhenRunningIsNoOp(t *testing.T) {
	now := time.Now()
	s := newStore(&now)

	_, err := s.Resume(context.Background(), "v1")
	assert.True(t, gameerr.IsNoChange(err))
}

func TestUpdateTickAccumulatesGameTime(t *testing.T) {
	now := time.Date(2280, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newStore(&now)
	ctx := context.Background()

	_, err := s.GetOrCreate(ctx, "v1")
	require.NoError(t, err)

	now = now.Add(90 * time.Second)
	g, err := s.UpdateTick(ctx, "v1", 90)
	require.NoError(t, err)
	assert.Equal(t, 90.0, g.TotalGameTime)
	assert.Equal(t, now, g.LastTickTime)

	now = now.Add(30 * time.Second)
	g, err = s.UpdateTick(ctx, "v1", 30)
	require.NoError(t, err)
	assert.Equal(t, 120.0, g.TotalGameTime)
}

func TestOfflineSecondsNeverNegative(t *testing.T) {
	now := time.Now()
	s := newStore(&now)

	g := GameState{LastTickTime: now.Add(time.Hour)}
	assert.Equal(t, 0.0, s.OfflineSeconds(g))
}
