// Package gamestate tracks per-vault simulation bookkeeping: when the vault
// last ticked and whether it is running at all. Everything else in the engine
// is gated by this record.
package gamestate

import "time"

// GameState is 1:1 with a vault. Created on vault creation; mutated only by
// tick, pause and resume.
type GameState struct {
	VaultID       string     `json:"vault_id"`
	LastTickTime  time.Time  `json:"last_tick_time"`
	IsActive      bool       `json:"is_active"`
	IsPaused      bool       `json:"is_paused"`
	TotalGameTime float64    `json:"total_game_time"` // seconds
	PausedAt      *time.Time `json:"paused_at,omitempty"`
	ResumedAt     *time.Time `json:"resumed_at,omitempty"`
}

// Running reports whether ticks should advance this vault.
func (g *GameState) Running() bool {
	return g.IsActive && !g.IsPaused
}
