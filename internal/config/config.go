package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Game holds the gameplay balance data loaded from game.yaml.
// It is constructed once at process start and passed into every engine
// component; no package carries its own ambient copy.
type Game struct {
	Resources     Resources     `yaml:"resources" json:"resources"`
	Rooms         Rooms         `yaml:"rooms" json:"rooms"`
	Training      Training      `yaml:"training" json:"training"`
	Pregnancy     Pregnancy     `yaml:"pregnancy" json:"pregnancy"`
	Exploration   Exploration   `yaml:"exploration" json:"exploration"`
	Incidents     Incidents     `yaml:"incidents" json:"incidents"`
	Death         Death         `yaml:"death" json:"death"`
	Leveling      Leveling      `yaml:"leveling" json:"leveling"`
	Relationships Relationships `yaml:"relationships" json:"relationships"`
	Recruiting    Recruiting    `yaml:"recruiting" json:"recruiting"`
}

type Resources struct {
	// Production rate per second for a size-1 tier-1 room, keyed by the
	// resource the room's ability produces.
	BaseRates map[string]float64 `yaml:"base_rates" json:"base_rates"`

	// Output multiplier by room tier (1-3).
	TierMultipliers map[int]float64 `yaml:"tier_multipliers" json:"tier_multipliers"`

	// Power drawn per second by a room of the given tier.
	PowerPerRoomTier map[int]float64 `yaml:"power_per_room_tier" json:"power_per_room_tier"`

	// Consumption per dweller per second.
	FoodPerDweller  float64 `yaml:"food_per_dweller" json:"food_per_dweller"`
	WaterPerDweller float64 `yaml:"water_per_dweller" json:"water_per_dweller"`

	// Penalties applied while a resource sits at zero, per hour of tick time.
	NoPowerHappinessPerHour float64 `yaml:"no_power_happiness_per_hour" json:"no_power_happiness_per_hour"`
	StarvationHealthPerHour float64 `yaml:"starvation_health_per_hour" json:"starvation_health_per_hour"`
}

type Rooms struct {
	MaxTier int `yaml:"max_tier" json:"max_tier"`
	MaxSize int `yaml:"max_size" json:"max_size"`

	// Per-category capacity/output formula constants. The formula itself is
	// one of a closed set of named variants; see room.Formula.
	Specs map[string]RoomSpec `yaml:"specs" json:"specs"`
}

type RoomSpec struct {
	Formula string  `yaml:"formula" json:"formula"` // "linear", "per_tier", "exponential"
	Base    float64 `yaml:"base" json:"base"`
	PerTier float64 `yaml:"per_tier" json:"per_tier"`
	PerSize float64 `yaml:"per_size" json:"per_size"`
}

type Training struct {
	BaseDurationSeconds     int             `yaml:"base_duration_seconds" json:"base_duration_seconds"`
	PerLevelIncreaseSeconds int             `yaml:"per_level_increase_seconds" json:"per_level_increase_seconds"`
	TierMultipliers         map[int]float64 `yaml:"tier_multipliers" json:"tier_multipliers"`
	MaxStat                 int             `yaml:"max_stat" json:"max_stat"`
}

type Pregnancy struct {
	DurationHours int `yaml:"duration_hours" json:"duration_hours"`
}

type Exploration struct {
	MinHours        int     `yaml:"min_hours" json:"min_hours"`
	MaxHours        int     `yaml:"max_hours" json:"max_hours"`
	XPPerHour       int     `yaml:"xp_per_hour" json:"xp_per_hour"`
	EventsPerHour   float64 `yaml:"events_per_hour" json:"events_per_hour"`
	LootChancePerHr float64 `yaml:"loot_chance_per_hour" json:"loot_chance_per_hour"`
}

type Incidents struct {
	SpawnChancePerHour float64        `yaml:"spawn_chance_per_hour" json:"spawn_chance_per_hour"`
	MinPopulation      int            `yaml:"min_population" json:"min_population"`
	CooldownSeconds    int            `yaml:"cooldown_seconds" json:"cooldown_seconds"`
	MaxActive          int            `yaml:"max_active" json:"max_active"`
	MaxSpreadCount     int            `yaml:"max_spread_count" json:"max_spread_count"`
	Types              []IncidentType `yaml:"types" json:"types"`
}

type IncidentType struct {
	ID              string `yaml:"id" json:"id"`
	Weight          int    `yaml:"weight" json:"weight"`
	MinDifficulty   int    `yaml:"min_difficulty" json:"min_difficulty"`
	MaxDifficulty   int    `yaml:"max_difficulty" json:"max_difficulty"`
	DurationSeconds int    `yaml:"duration_seconds" json:"duration_seconds"`
	VaultDoor       bool   `yaml:"vault_door" json:"vault_door"`
}

type Death struct {
	PermanentDeathDays   int     `yaml:"permanent_death_days" json:"permanent_death_days"`
	MaxRevivalCost       int     `yaml:"max_revival_cost" json:"max_revival_cost"`
	ReviveHealthFraction float64 `yaml:"revive_health_fraction" json:"revive_health_fraction"`
	CostPerLevelLow      int     `yaml:"cost_per_level_low" json:"cost_per_level_low"`
	CostPerLevelMid      int     `yaml:"cost_per_level_mid" json:"cost_per_level_mid"`
	CostPerLevelHigh     int     `yaml:"cost_per_level_high" json:"cost_per_level_high"`
}

type Leveling struct {
	BaseXPRequirement int     `yaml:"base_xp_requirement" json:"base_xp_requirement"`
	Exponent          float64 `yaml:"exponent" json:"exponent"`
	MaxLevel          int     `yaml:"max_level" json:"max_level"`
	HPGainPerLevel    float64 `yaml:"hp_gain_per_level" json:"hp_gain_per_level"`
}

type Relationships struct {
	AffinityPerTick         float64              `yaml:"affinity_per_tick" json:"affinity_per_tick"`
	RomanceThreshold        float64              `yaml:"romance_threshold" json:"romance_threshold"`
	Weights                 CompatibilityWeights `yaml:"weights" json:"weights"`
	ConceptionChancePerTick float64              `yaml:"conception_chance_per_tick" json:"conception_chance_per_tick"`
	ChildStatVariance       int                  `yaml:"child_stat_variance" json:"child_stat_variance"`
	RarityUpgradeChance     float64              `yaml:"rarity_upgrade_chance" json:"rarity_upgrade_chance"`
}

type CompatibilityWeights struct {
	Special   float64 `yaml:"special" json:"special"`
	Happiness float64 `yaml:"happiness" json:"happiness"`
	Level     float64 `yaml:"level" json:"level"`
	Proximity float64 `yaml:"proximity" json:"proximity"`
}

type Recruiting struct {
	CapsCost int `yaml:"caps_cost" json:"caps_cost"`
}

// Default returns the stock balance. Values mirror game.yaml so the engine
// runs without a data file present.
func Default() *Game {
	return &Game{
		Resources: Resources{
			BaseRates: map[string]float64{
				"power": 0.04,
				"food":  0.03,
				"water": 0.03,
			},
			TierMultipliers:  map[int]float64{1: 1.0, 2: 1.5, 3: 2.0},
			PowerPerRoomTier: map[int]float64{1: 0.005, 2: 0.008, 3: 0.012},
			FoodPerDweller:   0.002,
			WaterPerDweller:  0.002,

			NoPowerHappinessPerHour: 2,
			StarvationHealthPerHour: 5,
		},
		Rooms: Rooms{
			MaxTier: 3,
			MaxSize: 3,
			Specs: map[string]RoomSpec{
				"production": {Formula: "per_tier", Base: 20, PerTier: 10, PerSize: 1},
				"capacity":   {Formula: "linear", Base: 50, PerTier: 25, PerSize: 1},
				"training":   {Formula: "linear", Base: 2, PerTier: 2, PerSize: 1},
				"living":     {Formula: "linear", Base: 4, PerTier: 2, PerSize: 1},
				"door":       {Formula: "linear", Base: 2, PerTier: 1, PerSize: 0},
			},
		},
		Training: Training{
			BaseDurationSeconds:     3600,
			PerLevelIncreaseSeconds: 1800,
			TierMultipliers:         map[int]float64{1: 1.0, 2: 0.75, 3: 0.6},
			MaxStat:                 10,
		},
		Pregnancy: Pregnancy{DurationHours: 3},
		Exploration: Exploration{
			MinHours:        1,
			MaxHours:        24,
			XPPerHour:       50,
			EventsPerHour:   1.5,
			LootChancePerHr: 0.8,
		},
		Incidents: Incidents{
			SpawnChancePerHour: 0.15,
			MinPopulation:      4,
			CooldownSeconds:    1800,
			MaxActive:          3,
			MaxSpreadCount:     3,
			Types: []IncidentType{
				{ID: "radroach", Weight: 30, MinDifficulty: 1, MaxDifficulty: 4, DurationSeconds: 120},
				{ID: "mole_rat", Weight: 20, MinDifficulty: 2, MaxDifficulty: 5, DurationSeconds: 150},
				{ID: "fire", Weight: 25, MinDifficulty: 1, MaxDifficulty: 6, DurationSeconds: 90},
				{ID: "raider", Weight: 15, MinDifficulty: 3, MaxDifficulty: 7, DurationSeconds: 180, VaultDoor: true},
				{ID: "deathclaw", Weight: 10, MinDifficulty: 7, MaxDifficulty: 10, DurationSeconds: 240, VaultDoor: true},
			},
		},
		Death: Death{
			PermanentDeathDays:   7,
			MaxRevivalCost:       2000,
			ReviveHealthFraction: 0.5,
			CostPerLevelLow:      50,
			CostPerLevelMid:      75,
			CostPerLevelHigh:     100,
		},
		Leveling: Leveling{
			BaseXPRequirement: 100,
			Exponent:          1.5,
			MaxLevel:          50,
			HPGainPerLevel:    2.5,
		},
		Relationships: Relationships{
			AffinityPerTick:  0.5,
			RomanceThreshold: 70,
			Weights: CompatibilityWeights{
				Special:   0.4,
				Happiness: 0.2,
				Level:     0.2,
				Proximity: 0.2,
			},
			ConceptionChancePerTick: 0.05,
			ChildStatVariance:       1,
			RarityUpgradeChance:     0.1,
		},
		Recruiting: Recruiting{CapsCost: 100},
	}
}

// Load reads a balance file over the defaults and validates the result.
func Load(path string) (*Game, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := Default()
	if err := yaml.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Validate rejects balance data the engine cannot run on.
func (g *Game) Validate() error {
	w := g.Relationships.Weights
	sum := w.Special + w.Happiness + w.Level + w.Proximity
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("compatibility weights must sum to 1.0, got %.3f", sum)
	}
	if g.Training.MaxStat < 1 {
		return fmt.Errorf("training max_stat must be >= 1")
	}
	if g.Pregnancy.DurationHours <= 0 {
		return fmt.Errorf("pregnancy duration_hours must be > 0")
	}
	total := 0
	for _, t := range g.Incidents.Types {
		if t.Weight < 0 {
			return fmt.Errorf("incident type %s has negative weight", t.ID)
		}
		if t.MinDifficulty < 1 || t.MaxDifficulty > 10 || t.MinDifficulty > t.MaxDifficulty {
			return fmt.Errorf("incident type %s difficulty range invalid", t.ID)
		}
		total += t.Weight
	}
	if len(g.Incidents.Types) > 0 && total == 0 {
		return fmt.Errorf("incident spawn weights are all zero")
	}
	return nil
}
