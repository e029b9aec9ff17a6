package incident

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/notify"
	"overseer/internal/room"
)

// Engine rolls for new incidents each tick and advances live ones.
type Engine struct {
	Incidents Repository
	Rooms     room.Repository
	Dwellers  dweller.Repository
	Config    *config.Game
	Now       func() time.Time
	Rand      *rand.Rand
	Notifier  notify.Notifier
	Logger    *slog.Logger
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) rng() *rand.Rand {
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.Rand
}

func (e *Engine) log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// TrySpawn rolls for a new incident given elapsed tick time. Gated on
// population, active count and a cooldown since the last spawn.
func (e *Engine) TrySpawn(ctx context.Context, vaultID string, elapsed time.Duration) (*Incident, error) {
	cfg := e.Config.Incidents

	pop, err := e.Dwellers.CountAlive(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if pop < cfg.MinPopulation {
		return nil, nil
	}

	live, err := e.Incidents.ListLive(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if len(live) >= cfg.MaxActive {
		return nil, nil
	}

	all, err := e.Incidents.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	cooldown := time.Duration(cfg.CooldownSeconds) * time.Second
	for _, inc := range all {
		if now.Sub(inc.StartedAt) < cooldown {
			return nil, nil
		}
	}

	chance := cfg.SpawnChancePerHour * elapsed.Hours()
	if chance > 1 {
		chance = 1
	}
	if e.rng().Float64() >= chance {
		return nil, nil
	}

	typ, ok := e.drawType()
	if !ok {
		return nil, nil
	}
	target, err := e.pickTarget(ctx, vaultID, typ)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, nil
	}

	span := typ.MaxDifficulty - typ.MinDifficulty
	difficulty := typ.MinDifficulty
	if span > 0 {
		difficulty += e.rng().Intn(span + 1)
	}

	inc := Incident{
		ID:                    uuid.NewString(),
		VaultID:               vaultID,
		Type:                  typ.ID,
		Difficulty:            difficulty,
		Status:                StatusActive,
		StartedAt:             now,
		RoomIDs:               []string{target},
		SpreadIntervalSeconds: typ.DurationSeconds,
	}
	if err := e.Incidents.Create(ctx, inc); err != nil {
		return nil, err
	}
	e.log().Info("incident spawned",
		"vault_id", vaultID, "type", inc.Type, "difficulty", inc.Difficulty, "room_id", target)
	return &inc, nil
}

// drawType picks an incident type by spawn weight.
func (e *Engine) drawType() (config.IncidentType, bool) {
	types := e.Config.Incidents.Types
	total := 0
	for _, t := range types {
		total += t.Weight
	}
	if total == 0 {
		return config.IncidentType{}, false
	}
	roll := e.rng().Intn(total)
	current := 0
	for _, t := range types {
		current += t.Weight
		if roll < current {
			return t, true
		}
	}
	return config.IncidentType{}, false
}

// pickTarget chooses the origin room: the vault door for external attacks,
// otherwise a random occupied room.
func (e *Engine) pickTarget(ctx context.Context, vaultID string, typ config.IncidentType) (string, error) {
	rooms, err := e.Rooms.ListByVault(ctx, vaultID)
	if err != nil {
		return "", err
	}
	if typ.VaultDoor {
		for _, rm := range rooms {
			if rm.IsVaultDoor() {
				return rm.ID, nil
			}
		}
		return "", nil
	}
	occupied := []room.Room{}
	for _, rm := range rooms {
		if rm.Occupied() && !rm.IsVaultDoor() {
			occupied = append(occupied, rm)
		}
	}
	if len(occupied) == 0 {
		return "", nil
	}
	return occupied[e.rng().Intn(len(occupied))].ID, nil
}

// Advance spreads live incidents whose interval has elapsed and applies
// damage to dwellers in affected rooms. Returns incidents that spread.
func (e *Engine) Advance(ctx context.Context, vaultID string, elapsed time.Duration) ([]Incident, error) {
	live, err := e.Incidents.ListLive(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	spread := []Incident{}
	for _, inc := range live {
		if err := e.applyDamage(ctx, &inc, elapsed); err != nil {
			return spread, err
		}
		if inc.ShouldSpread(now, e.Config.Incidents.MaxSpreadCount) {
			grew, err := e.spreadOne(ctx, &inc, now)
			if err != nil {
				return spread, err
			}
			if grew {
				spread = append(spread, inc)
			}
		}
		if _, err := e.Incidents.Update(ctx, inc); err != nil {
			return spread, err
		}
	}
	return spread, nil
}

// spreadOne moves the incident into one adjacent untouched room. The spread
// timer resets whether or not a new room was available.
func (e *Engine) spreadOne(ctx context.Context, inc *Incident, now time.Time) (bool, error) {
	rooms, err := e.Rooms.ListByVault(ctx, inc.VaultID)
	if err != nil {
		return false, err
	}

	affected := map[string]room.Room{}
	byID := map[string]room.Room{}
	for _, rm := range rooms {
		byID[rm.ID] = rm
	}
	for _, id := range inc.RoomIDs {
		if rm, ok := byID[id]; ok {
			affected[id] = rm
		}
	}

	candidates := []room.Room{}
	for _, rm := range rooms {
		if _, hit := affected[rm.ID]; hit {
			continue
		}
		for _, a := range affected {
			if adjacent(a, rm) {
				candidates = append(candidates, rm)
				break
			}
		}
	}

	ts := now
	inc.LastSpreadAt = &ts
	if len(candidates) == 0 {
		return false, nil
	}

	next := candidates[e.rng().Intn(len(candidates))]
	if !inc.AddRoom(next.ID) {
		return false, nil
	}
	inc.Status = StatusSpreading
	e.log().Info("incident spread", "incident_id", inc.ID, "type", inc.Type, "room_id", next.ID)
	return true, nil
}

func adjacent(a, b room.Room) bool {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

// applyDamage hurts dwellers stationed in affected rooms, scaled by
// difficulty and elapsed time.
func (e *Engine) applyDamage(ctx context.Context, inc *Incident, elapsed time.Duration) error {
	perHour := float64(inc.Difficulty) * 3
	dmg := perHour * elapsed.Hours()
	if dmg <= 0 {
		return nil
	}
	for _, roomID := range inc.RoomIDs {
		rm, ok, err := e.Rooms.Get(ctx, roomID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for _, id := range rm.DwellerIDs {
			d, ok, err := e.Dwellers.Get(ctx, id)
			if err != nil {
				return err
			}
			if !ok || d.IsDead {
				continue
			}
			d.Damage(dmg)
			if _, err := e.Dwellers.Update(ctx, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolve closes out an incident as fought off or lost.
func (e *Engine) Resolve(ctx context.Context, incidentID string, success bool) (Incident, error) {
	inc, ok, err := e.Incidents.Get(ctx, incidentID)
	if err != nil {
		return Incident{}, err
	}
	if !ok {
		return Incident{}, gameerr.NotFoundf("incident %s not found", incidentID)
	}
	if !inc.Live() {
		return Incident{}, gameerr.NoChangef("incident %s is already %s", inc.ID, inc.Status)
	}

	now := e.now()
	inc.ResolvedAt = &now
	if success {
		inc.Status = StatusResolved
	} else {
		inc.Status = StatusFailed
	}
	e.log().Info("incident resolved",
		"incident_id", inc.ID, "type", inc.Type, "status", string(inc.Status))
	inc, err = e.Incidents.Update(ctx, inc)
	if err != nil {
		return Incident{}, err
	}
	if e.Notifier != nil {
		e.Notifier.Notify(ctx, notify.Event{Type: notify.EventIncidentResolved, VaultID: inc.VaultID, At: now,
			Data: map[string]any{"incident_id": inc.ID, "type": inc.Type, "success": success}})
	}
	return inc, nil
}
