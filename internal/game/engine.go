// Package game wires the per-vault simulation together: one tick pass runs
// resources, timed actions, incidents and relationships in a fixed order.
package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"overseer/internal/breeding"
	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/exploration"
	"overseer/internal/gameerr"
	"overseer/internal/gamestate"
	"overseer/internal/incident"
	"overseer/internal/notify"
	"overseer/internal/quest"
	"overseer/internal/relationship"
	"overseer/internal/resource"
	"overseer/internal/training"
	"overseer/internal/vault"
)

// Engine advances vault simulations. Ticks for the same vault are
// serialized; different vaults may tick concurrently.
type Engine struct {
	Vaults   vault.Repository
	Dwellers dweller.Repository
	States   *gamestate.Store

	Resources     *resource.Engine
	Trainings     *training.Service
	Explorations  *exploration.Service
	Breeding      *breeding.Service
	Relationships *relationship.Service
	Incidents     *incident.Engine
	Deaths        *dweller.DeathService
	Leveling      *dweller.LevelingService
	Quests        *quest.Service

	Config   *config.Game
	Settings *config.Settings
	Clock    Clock
	Notifier notify.Notifier
	Logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Engine) log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Engine) notify(ctx context.Context, ev notify.Event) {
	if e.Notifier == nil {
		return
	}
	ev.At = e.now()
	e.Notifier.Notify(ctx, ev)
}

func (e *Engine) vaultLock(vaultID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locks == nil {
		e.locks = map[string]*sync.Mutex{}
	}
	l, ok := e.locks[vaultID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[vaultID] = l
	}
	return l
}

// TickResult summarizes one simulation pass over a vault.
type TickResult struct {
	VaultID        string  `json:"vault_id"`
	SecondsApplied float64 `json:"seconds_applied"`
	Skipped        bool    `json:"skipped"`

	Resources resource.TickResult `json:"resources"`

	TrainingsCompleted   int `json:"trainings_completed"`
	BabiesBorn           int `json:"babies_born"`
	TripsCompleted       int `json:"trips_completed"`
	IncidentsSpawned     int `json:"incidents_spawned"`
	IncidentsSpread      int `json:"incidents_spread"`
	RomancesFormed       int `json:"romances_formed"`
	PregnanciesConceived int `json:"pregnancies_conceived"`
	DwellersDied         int `json:"dwellers_died"`
}

// TickVault runs one catch-up pass for a vault. Elapsed time is measured
// from the last tick stamp and clamped by the offline ceiling, so the same
// code path serves the scheduler, manual ticks and login catch-up.
func (e *Engine) TickVault(ctx context.Context, vaultID string) (TickResult, error) {
	l := e.vaultLock(vaultID)
	l.Lock()
	defer l.Unlock()
	return e.tickLocked(ctx, vaultID, 1.0)
}

func (e *Engine) tickLocked(ctx context.Context, vaultID string, speedup float64) (TickResult, error) {
	res := TickResult{VaultID: vaultID}

	state, err := e.States.GetOrCreate(ctx, vaultID)
	if err != nil {
		return res, err
	}
	if !state.Running() {
		res.Skipped = true
		return res, nil
	}

	secs := e.States.OfflineSeconds(state)
	if ceiling := e.maxCatchupSeconds(); secs > ceiling {
		secs = ceiling
	}
	secs *= speedup
	if secs <= 0 {
		res.Skipped = true
		return res, nil
	}
	elapsed := time.Duration(secs * float64(time.Second))
	res.SecondsApplied = secs

	// Phase order is fixed: resources feed health, timed actions settle,
	// incidents act on the updated rooms, then social systems run.
	res.Resources, err = e.Resources.Tick(ctx, vaultID, elapsed)
	if err != nil {
		return res, err
	}
	if err := e.settleCasualties(ctx, vaultID, &res); err != nil {
		return res, err
	}

	done, err := e.Trainings.CompleteDue(ctx, vaultID)
	if err != nil {
		return res, err
	}
	res.TrainingsCompleted = len(done)
	for _, t := range done {
		e.notify(ctx, notify.Event{Type: notify.EventTrainingComplete, VaultID: vaultID,
			Data: map[string]any{"dweller_id": t.DwellerID, "stat": string(t.Stat)}})
		if _, err := e.Quests.RecordProgress(ctx, vaultID, quest.OpTrainStats, 1); err != nil {
			return res, err
		}
	}

	born, err := e.Breeding.DeliverDue(ctx, vaultID)
	if err != nil {
		return res, err
	}
	res.BabiesBorn = len(born)
	for _, child := range born {
		e.notify(ctx, notify.Event{Type: notify.EventBabyBorn, VaultID: vaultID,
			Data: map[string]any{"dweller_id": child.ID, "name": child.Name}})
		if _, err := e.Quests.RecordProgress(ctx, vaultID, quest.OpDeliverBabies, 1); err != nil {
			return res, err
		}
	}

	if err := e.advanceExplorations(ctx, vaultID, elapsed, &res); err != nil {
		return res, err
	}

	if err := e.advanceIncidents(ctx, vaultID, elapsed, &res); err != nil {
		return res, err
	}
	if err := e.settleCasualties(ctx, vaultID, &res); err != nil {
		return res, err
	}

	ticks := int(elapsed / (60 * time.Second))
	promoted, err := e.Relationships.Tick(ctx, vaultID, ticks)
	if err != nil {
		return res, err
	}
	res.RomancesFormed = len(promoted)

	conceived, err := e.Breeding.TickConception(ctx, vaultID, ticks)
	if err != nil {
		return res, err
	}
	res.PregnanciesConceived = len(conceived)

	if _, err := e.States.UpdateTick(ctx, vaultID, secs); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Engine) maxCatchupSeconds() float64 {
	if e.Settings == nil || e.Settings.MaxOfflineCatchup <= 0 {
		return (24 * time.Hour).Seconds()
	}
	return e.Settings.MaxOfflineCatchup.Seconds()
}

func (e *Engine) advanceExplorations(ctx context.Context, vaultID string, elapsed time.Duration, res *TickResult) error {
	es, err := e.Explorations.ListActive(ctx, vaultID)
	if err != nil {
		return err
	}
	for _, ex := range es {
		if _, err := e.Explorations.Advance(ctx, ex, elapsed); err != nil {
			return err
		}
	}
	done, err := e.Explorations.CompleteDue(ctx, vaultID)
	if err != nil {
		return err
	}
	res.TripsCompleted = len(done)
	for _, ex := range done {
		e.notify(ctx, notify.Event{Type: notify.EventExplorationComplete, VaultID: vaultID,
			Data: map[string]any{"dweller_id": ex.DwellerID, "loot": len(ex.LootCollected)}})
		if _, err := e.Quests.RecordProgress(ctx, vaultID, quest.OpCompleteTrips, 1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) advanceIncidents(ctx context.Context, vaultID string, elapsed time.Duration, res *TickResult) error {
	spawned, err := e.Incidents.TrySpawn(ctx, vaultID, elapsed)
	if err != nil {
		return err
	}
	if spawned != nil {
		res.IncidentsSpawned++
		e.notify(ctx, notify.Event{Type: notify.EventIncidentSpawned, VaultID: vaultID,
			Data: map[string]any{"incident_id": spawned.ID, "type": spawned.Type, "difficulty": spawned.Difficulty}})
	}
	spread, err := e.Incidents.Advance(ctx, vaultID, elapsed)
	if err != nil {
		return err
	}
	res.IncidentsSpread = len(spread)
	return nil
}

// settleCasualties marks dwellers whose health hit zero as dead and emits
// the death events.
func (e *Engine) settleCasualties(ctx context.Context, vaultID string, res *TickResult) error {
	ds, err := e.Dwellers.ListByVault(ctx, vaultID)
	if err != nil {
		return err
	}
	for _, d := range ds {
		if d.IsDead || d.Health > 0 {
			continue
		}
		cause := "starvation"
		if res.IncidentsSpawned > 0 || res.IncidentsSpread > 0 {
			cause = "incident"
		}
		if err := e.Deaths.MarkDead(&d, cause, ""); err != nil {
			if gameerr.IsNoChange(err) {
				continue
			}
			return err
		}
		if _, err := e.Dwellers.Update(ctx, d); err != nil {
			return err
		}
		res.DwellersDied++
		e.notify(ctx, notify.Event{Type: notify.EventDwellerDied, VaultID: vaultID,
			Data: map[string]any{"dweller_id": d.ID, "name": d.Name, "cause": cause}})
	}
	return nil
}

// TickAll runs one pass over every vault. Failures are per-vault: one bad
// vault does not stop the others.
func (e *Engine) TickAll(ctx context.Context) []TickResult {
	vs, err := e.Vaults.List(ctx)
	if err != nil {
		e.log().Error("tick: vault list failed", "error", err)
		return nil
	}
	out := make([]TickResult, 0, len(vs))
	for _, v := range vs {
		res, err := e.TickVault(ctx, v.ID)
		if err != nil {
			e.log().Error("tick failed", "vault_id", v.ID, "error", err)
			continue
		}
		out = append(out, res)
	}
	return out
}

// ManualTick advances a vault on demand with an optional speedup factor.
func (e *Engine) ManualTick(ctx context.Context, vaultID string, speedup float64) (TickResult, error) {
	if speedup == 0 {
		speedup = 1.0
	}
	if speedup < 1.0 || speedup > 10.0 {
		return TickResult{}, gameerr.Validationf("speedup must be between 1.0 and 10.0, got %g", speedup)
	}
	l := e.vaultLock(vaultID)
	l.Lock()
	defer l.Unlock()
	return e.tickLocked(ctx, vaultID, speedup)
}

// Pause suspends a vault's simulation.
func (e *Engine) Pause(ctx context.Context, vaultID string) (gamestate.GameState, error) {
	return e.States.Pause(ctx, vaultID)
}

// Resume restarts a paused vault without simulating the gap.
func (e *Engine) Resume(ctx context.Context, vaultID string) (gamestate.GameState, error) {
	return e.States.Resume(ctx, vaultID)
}

// ManualRecruit buys a new dweller off the wasteland for caps.
func (e *Engine) ManualRecruit(ctx context.Context, vaultID, name string) (dweller.Dweller, error) {
	v, ok, err := e.Vaults.Get(ctx, vaultID)
	if err != nil {
		return dweller.Dweller{}, err
	}
	if !ok {
		return dweller.Dweller{}, gameerr.NotFoundf("vault %s not found", vaultID)
	}

	pop, err := e.Dwellers.CountAlive(ctx, vaultID)
	if err != nil {
		return dweller.Dweller{}, err
	}
	if pop >= v.PopulationMax {
		return dweller.Dweller{}, gameerr.VaultOpf("vault %s is at its population cap", v.Name)
	}

	cost := e.Config.Recruiting.CapsCost
	if !v.SpendCaps(cost) {
		return dweller.Dweller{}, gameerr.VaultOpf("recruiting costs %d caps, vault has %d", cost, v.Caps)
	}
	if _, err := e.Vaults.Update(ctx, v); err != nil {
		return dweller.Dweller{}, err
	}

	if name == "" {
		name = "Wanderer"
	}
	d := dweller.Dweller{
		ID:        uuid.NewString(),
		VaultID:   vaultID,
		Name:      name,
		Gender:    randomGender(),
		Special:   randomSpecial(),
		Level:     1,
		Health:    100,
		MaxHealth: 100,
		Happiness: 50,
		Status:    dweller.StatusIdle,
	}
	if err := e.Dwellers.Create(ctx, d); err != nil {
		return dweller.Dweller{}, err
	}
	return d, nil
}
