package quest

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"overseer/internal/dweller"
	"overseer/internal/vault"
)

// RewardKind names what a reward grants.
type RewardKind string

const (
	RewardCaps     RewardKind = "caps"
	RewardXP       RewardKind = "xp"
	RewardItem     RewardKind = "item"
	RewardResource RewardKind = "resource"
	RewardDweller  RewardKind = "dweller"
)

// Reward is a typed grant with an optional drop chance. Chance 0 means
// guaranteed.
type Reward struct {
	Kind     RewardKind `json:"kind"`
	Amount   int        `json:"amount,omitempty"`
	Item     string     `json:"item,omitempty"`
	Resource string     `json:"resource,omitempty"` // power, food or water
	Chance   float64    `json:"chance,omitempty"`   // 0 or 1 = guaranteed
}

// Granted reports what actually landed when a quest paid out.
type Granted struct {
	Caps       int      `json:"caps"`
	XP         int      `json:"xp"`
	Items      []string `json:"items,omitempty"`
	DwellerIDs []string `json:"dweller_ids,omitempty"`
}

// RewardService pays out quest rewards. One bad reward never blocks the
// rest: failures are logged per item and granting continues.
type RewardService struct {
	Vaults   vault.Repository
	Dwellers dweller.Repository
	Leveling *dweller.LevelingService
	Rand     *rand.Rand
	Logger   *slog.Logger
}

func (s *RewardService) rng() *rand.Rand {
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s.Rand
}

func (s *RewardService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Grant rolls and applies every reward on the quest.
func (s *RewardService) Grant(ctx context.Context, q Quest) Granted {
	out := Granted{}
	for _, r := range q.Rewards {
		if r.Chance > 0 && r.Chance < 1 && s.rng().Float64() >= r.Chance {
			continue
		}
		if err := s.grantOne(ctx, q.VaultID, r, &out); err != nil {
			s.log().Error("reward grant failed",
				"quest_id", q.ID, "kind", string(r.Kind), "error", err)
		}
	}
	return out
}

func (s *RewardService) grantOne(ctx context.Context, vaultID string, r Reward, out *Granted) error {
	switch r.Kind {
	case RewardCaps:
		v, ok, err := s.Vaults.Get(ctx, vaultID)
		if err != nil || !ok {
			return err
		}
		v.Caps += r.Amount
		if _, err := s.Vaults.Update(ctx, v); err != nil {
			return err
		}
		out.Caps += r.Amount
	case RewardXP:
		// XP spreads evenly over the living population.
		ds, err := s.Dwellers.ListByVault(ctx, vaultID)
		if err != nil {
			return err
		}
		alive := []dweller.Dweller{}
		for _, d := range ds {
			if !d.IsDead {
				alive = append(alive, d)
			}
		}
		if len(alive) == 0 {
			return nil
		}
		per := r.Amount / len(alive)
		if per <= 0 {
			per = 1
		}
		for _, d := range alive {
			if s.Leveling != nil {
				s.Leveling.AddExperience(&d, per)
			} else {
				d.Experience += per
			}
			if _, err := s.Dwellers.Update(ctx, d); err != nil {
				return err
			}
		}
		out.XP += r.Amount
	case RewardItem:
		v, ok, err := s.Vaults.Get(ctx, vaultID)
		if err != nil || !ok {
			return err
		}
		v.AddItem(r.Item)
		if _, err := s.Vaults.Update(ctx, v); err != nil {
			return err
		}
		out.Items = append(out.Items, r.Item)
	case RewardResource:
		v, ok, err := s.Vaults.Get(ctx, vaultID)
		if err != nil || !ok {
			return err
		}
		d := vault.Delta{}
		switch r.Resource {
		case "power":
			d.Power = float64(r.Amount)
		case "food":
			d.Food = float64(r.Amount)
		case "water":
			d.Water = float64(r.Amount)
		}
		v.ApplyDelta(d)
		if _, err := s.Vaults.Update(ctx, v); err != nil {
			return err
		}
	case RewardDweller:
		count := r.Amount
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			d, err := s.grantDweller(ctx, vaultID)
			if err != nil {
				return err
			}
			out.DwellerIDs = append(out.DwellerIDs, d.ID)
		}
	}
	return nil
}

// grantDweller settles a wasteland volunteer into the vault. The population
// cap is deliberately not checked: a quest payout never fails half-way.
func (s *RewardService) grantDweller(ctx context.Context, vaultID string) (dweller.Dweller, error) {
	rng := s.rng()
	sp := dweller.Special{}
	for _, st := range dweller.AllStats {
		sp.Set(st, 1+rng.Intn(10))
	}
	gender := "female"
	if rng.Intn(2) == 0 {
		gender = "male"
	}
	d := dweller.Dweller{
		ID:        uuid.NewString(),
		VaultID:   vaultID,
		Name:      "Volunteer",
		Gender:    gender,
		Special:   sp,
		Level:     1,
		Health:    100,
		MaxHealth: 100,
		Happiness: 50,
		Status:    dweller.StatusIdle,
	}
	if err := s.Dwellers.Create(ctx, d); err != nil {
		return dweller.Dweller{}, err
	}
	return d, nil
}
