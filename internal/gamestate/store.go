package gamestate

import (
	"context"
	"time"

	"overseer/internal/gameerr"
)

// Store is the only write path into GameState records.
type Store struct {
	Repo Repository
	Now  func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// GetOrCreate returns the vault's state, creating a fresh active one the
// first time a vault is seen.
func (s *Store) GetOrCreate(ctx context.Context, vaultID string) (GameState, error) {
	g, ok, err := s.Repo.Get(ctx, vaultID)
	if err != nil {
		return GameState{}, err
	}
	if ok {
		return g, nil
	}
	g = GameState{
		VaultID:      vaultID,
		LastTickTime: s.now(),
		IsActive:     true,
		IsPaused:     false,
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		return GameState{}, err
	}
	return g, nil
}

// Pause stops tick progression. Pausing an already-paused vault is a
// no-op guard and must not reset paused_at.
func (s *Store) Pause(ctx context.Context, vaultID string) (GameState, error) {
	g, err := s.GetOrCreate(ctx, vaultID)
	if err != nil {
		return GameState{}, err
	}
	if g.IsPaused {
		return g, gameerr.NoChangef("vault %s is already paused", vaultID)
	}
	now := s.now()
	g.IsPaused = true
	g.PausedAt = &now
	return s.Repo.Update(ctx, g)
}

// Resume restarts tick progression. The pause gap is not simulated: the next
// tick measures from last_tick_time and the catch-up ceiling bounds it.
func (s *Store) Resume(ctx context.Context, vaultID string) (GameState, error) {
	g, err := s.GetOrCreate(ctx, vaultID)
	if err != nil {
		return GameState{}, err
	}
	if !g.IsPaused {
		return g, gameerr.NoChangef("vault %s is not paused", vaultID)
	}
	now := s.now()
	g.IsPaused = false
	g.ResumedAt = &now
	// Skip the paused window entirely.
	g.LastTickTime = now
	return s.Repo.Update(ctx, g)
}

// UpdateTick stamps the tick and accumulates game time.
func (s *Store) UpdateTick(ctx context.Context, vaultID string, secondsPassed float64) (GameState, error) {
	g, err := s.GetOrCreate(ctx, vaultID)
	if err != nil {
		return GameState{}, err
	}
	g.LastTickTime = s.now()
	g.TotalGameTime += secondsPassed
	return s.Repo.Update(ctx, g)
}

// OfflineSeconds is the raw wall-clock gap since the last tick. Consumers
// clamp it by the configured catch-up ceiling before applying it.
func (s *Store) OfflineSeconds(g GameState) float64 {
	d := s.now().Sub(g.LastTickTime)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}
