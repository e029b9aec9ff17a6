// Package dweller defines vault inhabitants plus the death and leveling
// services that operate on them.
package dweller

import "time"

// Status tracks what a dweller is currently doing.
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusWorking   Status = "WORKING"
	StatusTraining  Status = "TRAINING"
	StatusExploring Status = "EXPLORING"
	StatusDead      Status = "DEAD"
)

// Stat names one of the seven SPECIAL stats.
type Stat string

const (
	Strength     Stat = "strength"
	Perception   Stat = "perception"
	Endurance    Stat = "endurance"
	Charisma     Stat = "charisma"
	Intelligence Stat = "intelligence"
	Agility      Stat = "agility"
	Luck         Stat = "luck"
)

// AllStats in canonical order.
var AllStats = []Stat{Strength, Perception, Endurance, Charisma, Intelligence, Agility, Luck}

// Special holds the seven stats, each 1-10.
type Special struct {
	Strength     int `json:"strength"`
	Perception   int `json:"perception"`
	Endurance    int `json:"endurance"`
	Charisma     int `json:"charisma"`
	Intelligence int `json:"intelligence"`
	Agility      int `json:"agility"`
	Luck         int `json:"luck"`
}

// Get returns the value of a named stat (0 for unknown names).
func (s Special) Get(stat Stat) int {
	switch stat {
	case Strength:
		return s.Strength
	case Perception:
		return s.Perception
	case Endurance:
		return s.Endurance
	case Charisma:
		return s.Charisma
	case Intelligence:
		return s.Intelligence
	case Agility:
		return s.Agility
	case Luck:
		return s.Luck
	}
	return 0
}

// Set assigns the value of a named stat.
func (s *Special) Set(stat Stat, v int) {
	switch stat {
	case Strength:
		s.Strength = v
	case Perception:
		s.Perception = v
	case Endurance:
		s.Endurance = v
	case Charisma:
		s.Charisma = v
	case Intelligence:
		s.Intelligence = v
	case Agility:
		s.Agility = v
	case Luck:
		s.Luck = v
	}
}

// Total sums all seven stats.
func (s Special) Total() int {
	return s.Strength + s.Perception + s.Endurance + s.Charisma + s.Intelligence + s.Agility + s.Luck
}

// Dweller is a vault inhabitant.
type Dweller struct {
	ID      string `json:"id"`
	VaultID string `json:"vault_id"`
	Name    string `json:"name"`
	Gender  string `json:"gender"`

	Special Special `json:"special"`

	Level      int     `json:"level"`
	Experience int     `json:"experience"`
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"max_health"`
	Radiation  float64 `json:"radiation"`
	Happiness  int     `json:"happiness"` // 10-100

	Status Status  `json:"status"`
	RoomID *string `json:"room_id,omitempty"`

	IsDead            bool       `json:"is_dead"`
	IsPermanentlyDead bool       `json:"is_permanently_dead"`
	DeathTimestamp    *time.Time `json:"death_timestamp,omitempty"`
	DeathCause        string     `json:"death_cause,omitempty"`
	Epitaph           string     `json:"epitaph,omitempty"`

	PartnerID *string `json:"partner_id,omitempty"`
}

// SetHappiness clamps into the dweller range [10,100].
func (d *Dweller) SetHappiness(h int) {
	if h < 10 {
		h = 10
	}
	if h > 100 {
		h = 100
	}
	d.Happiness = h
}

// Damage lowers health, floored at 0.
func (d *Dweller) Damage(amount float64) {
	d.Health -= amount
	if d.Health < 0 {
		d.Health = 0
	}
}

// Heal raises health, capped at max.
func (d *Dweller) Heal(amount float64) {
	d.Health += amount
	if d.Health > d.MaxHealth {
		d.Health = d.MaxHealth
	}
}
