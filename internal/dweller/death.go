package dweller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"overseer/internal/config"
	"overseer/internal/gameerr"
	"overseer/internal/vault"
)

// DeathService owns death, revival pricing and the permanent-death sweep.
type DeathService struct {
	Dwellers Repository
	Vaults   vault.Repository
	Config   *config.Game
	Now      func() time.Time
	Logger   *slog.Logger
}

func (s *DeathService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DeathService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

var epitaphs = map[string]string{
	"incident":    "Fell defending the vault.",
	"starvation":  "The rations ran out too soon.",
	"radiation":   "The wasteland got in.",
	"exploration": "Never came back through the door.",
}

// MarkDead flips a dweller into the dead state. Killing a corpse is a
// no-op guard, not an error path that mutates anything.
func (s *DeathService) MarkDead(d *Dweller, cause, epitaph string) error {
	if d.IsDead {
		return gameerr.NoChangef("dweller %s is already dead", d.Name)
	}
	now := s.now()
	d.IsDead = true
	d.Status = StatusDead
	d.Health = 0
	d.RoomID = nil
	d.DeathTimestamp = &now
	d.DeathCause = cause
	if epitaph == "" {
		if e, ok := epitaphs[cause]; ok {
			epitaph = e
		} else {
			epitaph = "Rest in peace."
		}
	}
	d.Epitaph = epitaph
	return nil
}

// RevivalCost prices revival by level tier, capped by config.
func (s *DeathService) RevivalCost(level int) int {
	var cost int
	switch {
	case level <= 5:
		cost = level * s.Config.Death.CostPerLevelLow
	case level <= 10:
		cost = level * s.Config.Death.CostPerLevelMid
	default:
		cost = level * s.Config.Death.CostPerLevelHigh
	}
	if cost > s.Config.Death.MaxRevivalCost {
		cost = s.Config.Death.MaxRevivalCost
	}
	return cost
}

// Revive brings a dead dweller back, deducting caps from its vault.
func (s *DeathService) Revive(ctx context.Context, dwellerID string) (Dweller, error) {
	d, ok, err := s.Dwellers.Get(ctx, dwellerID)
	if err != nil {
		return Dweller{}, err
	}
	if !ok {
		return Dweller{}, gameerr.NotFoundf("dweller %s not found", dwellerID)
	}
	if !d.IsDead {
		return Dweller{}, gameerr.NoChangef("dweller %s is not dead", d.Name)
	}
	if d.IsPermanentlyDead {
		return Dweller{}, gameerr.VaultOpf("dweller %s is permanently dead and cannot be revived", d.Name)
	}

	v, ok, err := s.Vaults.Get(ctx, d.VaultID)
	if err != nil {
		return Dweller{}, err
	}
	if !ok {
		return Dweller{}, gameerr.NotFoundf("vault %s not found", d.VaultID)
	}

	cost := s.RevivalCost(d.Level)
	if !v.SpendCaps(cost) {
		return Dweller{}, gameerr.VaultOpf("not enough caps to revive %s: need %d, have %d", d.Name, cost, v.Caps)
	}
	if _, err := s.Vaults.Update(ctx, v); err != nil {
		return Dweller{}, err
	}

	d.IsDead = false
	d.Status = StatusIdle
	d.Health = d.MaxHealth * s.Config.Death.ReviveHealthFraction
	d.DeathTimestamp = nil
	d.DeathCause = ""
	d.Epitaph = ""
	return s.Dwellers.Update(ctx, d)
}

// DaysUntilPermanent returns nil for living dwellers, otherwise the days
// left before the sweep makes the death permanent, floored at 0.
func (s *DeathService) DaysUntilPermanent(d Dweller) *int {
	if !d.IsDead || d.DeathTimestamp == nil {
		return nil
	}
	elapsed := int(s.now().Sub(*d.DeathTimestamp).Hours() / 24)
	left := s.Config.Death.PermanentDeathDays - elapsed
	if left < 0 {
		left = 0
	}
	return &left
}

// SweepPermanentDeaths marks every over-threshold dead dweller permanent.
// Safe to run repeatedly: already-permanent rows never come back from the
// repo, and a per-row failure does not stop the batch.
func (s *DeathService) SweepPermanentDeaths(ctx context.Context) (int, error) {
	dead, err := s.Dwellers.ListDead(ctx)
	if err != nil {
		return 0, fmt.Errorf("list dead dwellers: %w", err)
	}

	marked := 0
	for _, d := range dead {
		left := s.DaysUntilPermanent(d)
		if left == nil || *left > 0 {
			continue
		}
		d.IsPermanentlyDead = true
		if _, err := s.Dwellers.Update(ctx, d); err != nil {
			s.logger().Error("permanent-death sweep: update failed",
				"dweller_id", d.ID, "error", err)
			continue
		}
		marked++
	}
	return marked, nil
}
