// Package resource implements per-tick production and consumption of power,
// food and water.
package resource

import (
	"context"
	"time"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/room"
	"overseer/internal/vault"
)

// TickResult summarizes one resource pass over a vault.
type TickResult struct {
	Produced vault.Delta
	Consumed vault.Delta

	// Shortages observed after the delta was applied.
	PowerOut bool
	FoodOut  bool
	WaterOut bool

	// Dwellers hurt by starvation this pass.
	Starved []string
}

// Engine turns elapsed time into resource deltas. Production comes from the
// balance rates (per second, scaled by tier, size and staffing); the room's
// derived Output is the per-collection figure shown to the player.
type Engine struct {
	Vaults   vault.Repository
	Rooms    room.Repository
	Dwellers dweller.Repository
	Config   *config.Game
}

// Tick produces from staffed production rooms, consumes for rooms and
// dwellers, clamps, then applies shortage penalties.
func (e *Engine) Tick(ctx context.Context, vaultID string, elapsed time.Duration) (TickResult, error) {
	res := TickResult{}
	secs := elapsed.Seconds()
	if secs <= 0 {
		return res, nil
	}

	v, ok, err := e.Vaults.Get(ctx, vaultID)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, gameerr.NotFoundf("vault %s not found", vaultID)
	}
	rooms, err := e.Rooms.ListByVault(ctx, vaultID)
	if err != nil {
		return res, err
	}
	ds, err := e.Dwellers.ListByVault(ctx, vaultID)
	if err != nil {
		return res, err
	}

	cfg := e.Config.Resources
	for _, rm := range rooms {
		if rm.Category == room.CategoryProduction && rm.Occupied() {
			rate, ok := cfg.BaseRates[string(rm.Ability)]
			if !ok {
				continue
			}
			mult := 1.0
			if m, ok := cfg.TierMultipliers[rm.Tier]; ok {
				mult = m
			}
			// Staffing scales output linearly up to capacity.
			slots := rm.Capacity
			if slots < 1 {
				slots = 1
			}
			staffing := float64(len(rm.DwellerIDs)) / float64(slots)
			if staffing > 1 {
				staffing = 1
			}
			amount := rate * mult * float64(rm.Size) * staffing * secs
			switch rm.Ability {
			case room.AbilityPower:
				res.Produced.Power += amount
			case room.AbilityFood:
				res.Produced.Food += amount
			case room.AbilityWater:
				res.Produced.Water += amount
			}
		}
		if draw, ok := cfg.PowerPerRoomTier[rm.Tier]; ok {
			res.Consumed.Power += draw * secs
		}
	}

	alive := 0
	for _, d := range ds {
		if !d.IsDead {
			alive++
		}
	}
	res.Consumed.Food += cfg.FoodPerDweller * float64(alive) * secs
	res.Consumed.Water += cfg.WaterPerDweller * float64(alive) * secs

	v.ApplyDelta(vault.Delta{
		Power: res.Produced.Power - res.Consumed.Power,
		Food:  res.Produced.Food - res.Consumed.Food,
		Water: res.Produced.Water - res.Consumed.Water,
	})
	res.PowerOut = v.Power <= 0
	res.FoodOut = v.Food <= 0
	res.WaterOut = v.Water <= 0

	hours := elapsed.Hours()
	starving := res.FoodOut || res.WaterOut
	moodDrop := 0
	if res.PowerOut {
		moodDrop = int(cfg.NoPowerHappinessPerHour * hours)
	}
	happiness := []int{}
	for i, d := range ds {
		if d.IsDead {
			continue
		}
		if starving || moodDrop > 0 {
			if starving {
				d.Damage(cfg.StarvationHealthPerHour * hours)
				res.Starved = append(res.Starved, d.ID)
			}
			if moodDrop > 0 {
				d.SetHappiness(d.Happiness - moodDrop)
			}
			if _, err := e.Dwellers.Update(ctx, d); err != nil {
				return res, err
			}
			ds[i] = d
		}
		happiness = append(happiness, d.Happiness)
	}

	// Vault mood is the truncated average of its living dwellers.
	v.RecomputeHappiness(happiness)

	if _, err := e.Vaults.Update(ctx, v); err != nil {
		return res, err
	}
	return res, nil
}
