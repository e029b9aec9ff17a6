package dweller

import (
	"math"

	"overseer/internal/config"
)

// LevelingService owns the XP curve and level-up side effects.
type LevelingService struct {
	Config *config.Game
}

// XPRequired is the experience needed to reach a level from the one before.
// Level 1 requires nothing.
func (s *LevelingService) XPRequired(level int) int {
	if level <= 1 {
		return 0
	}
	base := float64(s.Config.Leveling.BaseXPRequirement)
	return int(math.Floor(base * math.Pow(float64(level), s.Config.Leveling.Exponent)))
}

// CheckLevelUp consumes banked experience while it covers the next level,
// applying side effects once for the whole batch.
func (s *LevelingService) CheckLevelUp(d *Dweller) (leveledUp bool, levelsGained int) {
	for d.Level < s.Config.Leveling.MaxLevel {
		need := s.XPRequired(d.Level + 1)
		if d.Experience < need {
			break
		}
		d.Experience -= need
		d.Level++
		levelsGained++
	}
	if levelsGained > 0 {
		s.ApplyLevelUp(d, levelsGained)
	}
	return levelsGained > 0, levelsGained
}

// ApplyLevelUp raises max health and fully heals. Leveling is always good
// news for the dweller.
func (s *LevelingService) ApplyLevelUp(d *Dweller, levels int) {
	d.MaxHealth += s.Config.Leveling.HPGainPerLevel * float64(levels)
	d.Health = d.MaxHealth
}

// AddExperience banks XP and resolves any level-ups it triggers.
func (s *LevelingService) AddExperience(d *Dweller, xp int) (leveledUp bool, levelsGained int) {
	if xp <= 0 {
		return false, 0
	}
	d.Experience += xp
	return s.CheckLevelUp(d)
}
