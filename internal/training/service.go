package training

import (
	"context"
	"time"

	"github.com/google/uuid"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/room"
)

// Service starts, completes and cancels trainings.
type Service struct {
	Trainings Repository
	Dwellers  dweller.Repository
	Rooms     room.Repository
	Config    *config.Game
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Duration computes how long training one stat point takes: a base plus a
// per-point surcharge for the current value, discounted by room tier.
func (s *Service) Duration(currentStat, roomTier int) time.Duration {
	cfg := s.Config.Training
	secs := float64(cfg.BaseDurationSeconds + currentStat*cfg.PerLevelIncreaseSeconds)
	if m, ok := cfg.TierMultipliers[roomTier]; ok {
		secs *= m
	}
	return time.Duration(secs * float64(time.Second))
}

// Start validates and creates an active training for a dweller in a
// training room.
func (s *Service) Start(ctx context.Context, dwellerID, roomID string) (Training, error) {
	d, ok, err := s.Dwellers.Get(ctx, dwellerID)
	if err != nil {
		return Training{}, err
	}
	if !ok {
		return Training{}, gameerr.NotFoundf("dweller %s not found", dwellerID)
	}
	if d.IsDead {
		return Training{}, gameerr.VaultOpf("dweller %s is dead and cannot train", d.Name)
	}
	if d.Status == dweller.StatusExploring {
		return Training{}, gameerr.Conflictf("dweller %s is away exploring", d.Name)
	}

	rm, ok, err := s.Rooms.Get(ctx, roomID)
	if err != nil {
		return Training{}, err
	}
	if !ok {
		return Training{}, gameerr.NotFoundf("room %s not found", roomID)
	}
	if rm.Category != room.CategoryTraining {
		return Training{}, gameerr.Validationf("room %s is not a training room", rm.Name)
	}
	if rm.VaultID != d.VaultID {
		return Training{}, gameerr.Validationf("room %s belongs to a different vault", rm.Name)
	}

	if _, busy, err := s.Trainings.ActiveForDweller(ctx, dwellerID); err != nil {
		return Training{}, err
	} else if busy {
		return Training{}, gameerr.Conflictf("dweller %s already has an active training", d.Name)
	}

	stat := dweller.Stat(rm.Ability)
	current := d.Special.Get(stat)
	if current <= 0 {
		return Training{}, gameerr.Validationf("room %s trains unknown stat %q", rm.Name, rm.Ability)
	}
	if current >= s.Config.Training.MaxStat {
		return Training{}, gameerr.Validationf("%s is already at the maximum %s of %d",
			d.Name, stat, s.Config.Training.MaxStat)
	}

	now := s.now()
	t := Training{
		ID:               uuid.NewString(),
		VaultID:          d.VaultID,
		DwellerID:        d.ID,
		RoomID:           rm.ID,
		Stat:             stat,
		CurrentStatValue: current,
		TargetStatValue:  current + 1,
		StartedAt:        now,
		CompletesAt:      now.Add(s.Duration(current, rm.Tier)),
		Status:           StatusActive,
	}
	if err := s.Trainings.Create(ctx, t); err != nil {
		return Training{}, err
	}

	d.Status = dweller.StatusTraining
	if _, err := s.Dwellers.Update(ctx, d); err != nil {
		return Training{}, err
	}
	return t, nil
}

// Complete applies the stat increase exactly once. A second call rejects on
// the status guard before touching the dweller.
func (s *Service) Complete(ctx context.Context, trainingID string) (Training, error) {
	t, ok, err := s.Trainings.Get(ctx, trainingID)
	if err != nil {
		return Training{}, err
	}
	if !ok {
		return Training{}, gameerr.NotFoundf("training %s not found", trainingID)
	}
	if t.Status != StatusActive {
		return Training{}, gameerr.NoChangef("training %s is already %s", t.ID, t.Status)
	}

	now := s.now()
	if !t.ReadyToComplete(now) {
		return Training{}, gameerr.Validationf("training %s is not finished yet", t.ID)
	}

	d, ok, err := s.Dwellers.Get(ctx, t.DwellerID)
	if err != nil {
		return Training{}, err
	}
	if !ok {
		return Training{}, gameerr.NotFoundf("dweller %s not found", t.DwellerID)
	}

	v := d.Special.Get(t.Stat)
	if v < s.Config.Training.MaxStat {
		d.Special.Set(t.Stat, v+1)
	}
	d.Status = dweller.StatusIdle
	if _, err := s.Dwellers.Update(ctx, d); err != nil {
		return Training{}, err
	}

	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.Progress = 100
	return s.Trainings.Update(ctx, t)
}

// Cancel stops an active training with no stat effect.
func (s *Service) Cancel(ctx context.Context, trainingID string) (Training, error) {
	t, ok, err := s.Trainings.Get(ctx, trainingID)
	if err != nil {
		return Training{}, err
	}
	if !ok {
		return Training{}, gameerr.NotFoundf("training %s not found", trainingID)
	}
	if t.Status != StatusActive {
		return Training{}, gameerr.NoChangef("training %s is already %s", t.ID, t.Status)
	}

	d, ok, err := s.Dwellers.Get(ctx, t.DwellerID)
	if err != nil {
		return Training{}, err
	}
	if ok {
		d.Status = dweller.StatusIdle
		if _, err := s.Dwellers.Update(ctx, d); err != nil {
			return Training{}, err
		}
	}

	t.Status = StatusCancelled
	t.Progress = 0
	return s.Trainings.Update(ctx, t)
}

// CompleteDue finishes every ready training for a vault. Used by the tick.
func (s *Service) CompleteDue(ctx context.Context, vaultID string) ([]Training, error) {
	ts, err := s.Trainings.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	done := []Training{}
	for _, t := range ts {
		if !t.ReadyToComplete(now) {
			continue
		}
		finished, err := s.Complete(ctx, t.ID)
		if err != nil {
			if gameerr.IsNoChange(err) {
				continue
			}
			return done, err
		}
		done = append(done, finished)
	}
	return done, nil
}
