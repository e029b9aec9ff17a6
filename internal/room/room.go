// Package room defines vault rooms and the closed set of capacity/output
// formulas. Formula constants come from balance data; the formulas themselves
// are named variants dispatched here — caller-supplied expressions are never
// evaluated.
package room

import (
	"math"

	"overseer/internal/config"
	"overseer/internal/gameerr"
)

// Category groups rooms by what they do.
type Category string

const (
	CategoryProduction Category = "production"
	CategoryCapacity   Category = "capacity"
	CategoryTraining   Category = "training"
	CategoryLiving     Category = "living"
	CategoryDoor       Category = "door"
)

// Ability names the stat a training room trains or the resource a
// production room produces ("power", "food", "water", or a SPECIAL letter).
type Ability string

const (
	AbilityPower Ability = "power"
	AbilityFood  Ability = "food"
	AbilityWater Ability = "water"
)

// Room is a buildable cell group in the vault grid. The vault door always
// occupies (0,0).
type Room struct {
	ID       string   `json:"id"`
	VaultID  string   `json:"vault_id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Ability  Ability  `json:"ability"`
	Tier     int      `json:"tier"` // 1-3
	Size     int      `json:"size"` // merged cells
	Row      int      `json:"row"`
	Col      int      `json:"col"`

	// Derived at build/upgrade time from the formula table, not per tick.
	Capacity int     `json:"capacity"`
	Output   float64 `json:"output"`

	DwellerIDs []string `json:"dweller_ids"`
}

// IsVaultDoor reports whether this is the entrance room at (0,0).
func (r *Room) IsVaultDoor() bool {
	return r.Category == CategoryDoor || (r.Row == 0 && r.Col == 0)
}

// Occupied reports whether any dweller is assigned.
func (r *Room) Occupied() bool { return len(r.DwellerIDs) > 0 }

// HasDweller reports whether the given dweller is assigned here.
func (r *Room) HasDweller(id string) bool {
	for _, d := range r.DwellerIDs {
		if d == id {
			return true
		}
	}
	return false
}

// Assign adds a dweller if capacity allows.
func (r *Room) Assign(dwellerID string) error {
	if r.HasDweller(dwellerID) {
		return gameerr.NoChangef("dweller %s already assigned to room %s", dwellerID, r.ID)
	}
	if r.Capacity > 0 && len(r.DwellerIDs) >= r.Capacity {
		return gameerr.VaultOpf("room %s at full capacity (%d)", r.Name, r.Capacity)
	}
	r.DwellerIDs = append(r.DwellerIDs, dwellerID)
	return nil
}

// Unassign removes a dweller; missing ids are ignored.
func (r *Room) Unassign(dwellerID string) {
	for i, d := range r.DwellerIDs {
		if d == dwellerID {
			r.DwellerIDs = append(r.DwellerIDs[:i], r.DwellerIDs[i+1:]...)
			return
		}
	}
}

// Formula is a named capacity/output curve over (tier, size).
type Formula string

const (
	FormulaLinear      Formula = "linear"      // base + perTier*(tier-1) + perSize*(size-1)
	FormulaPerTier     Formula = "per_tier"    // (base + perTier*(tier-1)) * size
	FormulaExponential Formula = "exponential" // base * perTier^(tier-1) * size
)

// Evaluate applies a named formula to (tier, size). Unknown names fail
// at data-load time, not during ticks.
func Evaluate(f Formula, spec config.RoomSpec, tier, size int) (float64, error) {
	switch f {
	case FormulaLinear:
		return spec.Base + spec.PerTier*float64(tier-1) + spec.PerSize*float64(size-1), nil
	case FormulaPerTier:
		return (spec.Base + spec.PerTier*float64(tier-1)) * float64(size), nil
	case FormulaExponential:
		return spec.Base * math.Pow(spec.PerTier, float64(tier-1)) * float64(size), nil
	default:
		return 0, gameerr.Validationf("unknown room formula %q", string(f))
	}
}

// Derive recomputes Capacity and Output from the balance spec for the room's
// category. Called on build and on upgrade only.
func (r *Room) Derive(cfg *config.Game) error {
	spec, ok := cfg.Rooms.Specs[string(r.Category)]
	if !ok {
		return gameerr.Validationf("no room spec for category %q", string(r.Category))
	}
	val, err := Evaluate(Formula(spec.Formula), spec, r.Tier, r.Size)
	if err != nil {
		return err
	}
	if r.Category == CategoryProduction {
		r.Output = val
		r.Capacity = 2 * r.Size
	} else {
		r.Capacity = int(val)
	}
	return nil
}

// Upgrade raises the tier by one and re-derives constants.
func (r *Room) Upgrade(cfg *config.Game) error {
	if r.Tier >= cfg.Rooms.MaxTier {
		return gameerr.VaultOpf("room %s already at max tier %d", r.Name, cfg.Rooms.MaxTier)
	}
	r.Tier++
	return r.Derive(cfg)
}
