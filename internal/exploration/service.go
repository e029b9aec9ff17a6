package exploration

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/notify"
	"overseer/internal/vault"
)

// Service sends dwellers into the wasteland and settles their return.
type Service struct {
	Explorations Repository
	Dwellers     dweller.Repository
	Vaults       vault.Repository
	Leveling     *dweller.LevelingService
	Config       *config.Game
	Now          func() time.Time
	Rand         *rand.Rand
	Notifier     notify.Notifier
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) rng() *rand.Rand {
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s.Rand
}

// Start sends a dweller out for the given number of hours.
func (s *Service) Start(ctx context.Context, dwellerID string, hours int) (Exploration, error) {
	cfg := s.Config.Exploration
	if hours < cfg.MinHours || hours > cfg.MaxHours {
		return Exploration{}, gameerr.Validationf("exploration duration must be %d-%d hours, got %d",
			cfg.MinHours, cfg.MaxHours, hours)
	}

	d, ok, err := s.Dwellers.Get(ctx, dwellerID)
	if err != nil {
		return Exploration{}, err
	}
	if !ok {
		return Exploration{}, gameerr.NotFoundf("dweller %s not found", dwellerID)
	}
	if d.IsDead {
		return Exploration{}, gameerr.VaultOpf("dweller %s is dead and cannot explore", d.Name)
	}
	if d.Status != dweller.StatusIdle {
		return Exploration{}, gameerr.Conflictf("dweller %s is %s, not idle", d.Name, d.Status)
	}
	if _, busy, err := s.Explorations.ActiveForDweller(ctx, dwellerID); err != nil {
		return Exploration{}, err
	} else if busy {
		return Exploration{}, gameerr.Conflictf("dweller %s is already exploring", d.Name)
	}

	now := s.now()
	e := Exploration{
		ID:              uuid.NewString(),
		VaultID:         d.VaultID,
		DwellerID:       d.ID,
		DurationHours:   hours,
		StartTime:       now,
		EndTime:         now.Add(time.Duration(hours) * time.Hour),
		Status:          StatusActive,
		Events:          []Event{{At: now, Text: fmt.Sprintf("%s left the vault.", d.Name)}},
		SpecialSnapshot: d.Special,
	}
	if err := s.Explorations.Create(ctx, e); err != nil {
		return Exploration{}, err
	}

	d.Status = dweller.StatusExploring
	d.RoomID = nil
	if _, err := s.Dwellers.Update(ctx, d); err != nil {
		return Exploration{}, err
	}
	return e, nil
}

// ListActive returns the vault's ongoing trips.
func (s *Service) ListActive(ctx context.Context, vaultID string) ([]Exploration, error) {
	es, err := s.Explorations.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	out := []Exploration{}
	for _, e := range es {
		if e.Status == StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

// Advance rolls events and loot for the time that has passed since the last
// roll. Called from the tick; appends only, never rewrites.
func (s *Service) Advance(ctx context.Context, e Exploration, elapsed time.Duration) (Exploration, error) {
	if e.Status != StatusActive {
		return e, nil
	}
	now := s.now()
	hrs := elapsed.Hours()
	if over := now.Sub(e.EndTime).Hours(); over > 0 {
		hrs -= over
	}
	if hrs <= 0 {
		return e, nil
	}

	cfg := s.Config.Exploration
	rng := s.rng()

	events := poissonDraw(rng, cfg.EventsPerHour*hrs)
	for i := 0; i < events; i++ {
		e.Events = append(e.Events, Event{At: now, Text: eventTexts[rng.Intn(len(eventTexts))]})
	}

	// Luck widens the loot window.
	luckBonus := 1 + float64(e.SpecialSnapshot.Luck)/20
	drops := poissonDraw(rng, cfg.LootChancePerHr*hrs*luckBonus)
	for i := 0; i < drops; i++ {
		if l, ok := WastelandTable.Roll(rng); ok {
			e.LootCollected = append(e.LootCollected, l)
			e.Events = append(e.Events, Event{At: now, Text: "Found: " + l.Item + "."})
		}
	}
	return s.Explorations.Update(ctx, e)
}

// Recall turns an active trip around early. Loot and events earned so far
// are kept and settled immediately.
func (s *Service) Recall(ctx context.Context, explorationID string) (Exploration, error) {
	e, ok, err := s.Explorations.Get(ctx, explorationID)
	if err != nil {
		return Exploration{}, err
	}
	if !ok {
		return Exploration{}, gameerr.NotFoundf("exploration %s not found", explorationID)
	}
	if e.Status != StatusActive {
		return Exploration{}, gameerr.NoChangef("exploration %s is already %s", e.ID, e.Status)
	}
	return s.settle(ctx, e, StatusRecalled)
}

// Complete settles a trip that has run its full duration.
func (s *Service) Complete(ctx context.Context, explorationID string) (Exploration, error) {
	e, ok, err := s.Explorations.Get(ctx, explorationID)
	if err != nil {
		return Exploration{}, err
	}
	if !ok {
		return Exploration{}, gameerr.NotFoundf("exploration %s not found", explorationID)
	}
	if e.Status != StatusActive {
		return Exploration{}, gameerr.NoChangef("exploration %s is already %s", e.ID, e.Status)
	}
	if !e.ReadyToComplete(s.now()) {
		return Exploration{}, gameerr.Validationf("exploration %s is not finished yet", e.ID)
	}
	return s.settle(ctx, e, StatusCompleted)
}

// settle brings the dweller home: caps for loot, XP for hours out.
func (s *Service) settle(ctx context.Context, e Exploration, terminal Status) (Exploration, error) {
	now := s.now()

	capsEarned := 0
	for _, l := range e.LootCollected {
		capsEarned += l.Value
	}
	xp := int(math.Floor(e.HoursOut(now) * float64(s.Config.Exploration.XPPerHour)))

	d, ok, err := s.Dwellers.Get(ctx, e.DwellerID)
	if err != nil {
		return Exploration{}, err
	}
	if ok && !d.IsDead {
		d.Status = dweller.StatusIdle
		leveled := false
		if s.Leveling != nil {
			leveled, _ = s.Leveling.AddExperience(&d, xp)
		} else {
			d.Experience += xp
		}
		if _, err := s.Dwellers.Update(ctx, d); err != nil {
			return Exploration{}, err
		}
		if leveled && s.Notifier != nil {
			s.Notifier.Notify(ctx, notify.Event{
				Type: notify.EventLevelUp, VaultID: d.VaultID, At: now,
				Data: map[string]any{"dweller_id": d.ID, "level": d.Level},
			})
		}
	}

	if capsEarned > 0 {
		v, ok, err := s.Vaults.Get(ctx, e.VaultID)
		if err != nil {
			return Exploration{}, err
		}
		if ok {
			v.Caps += capsEarned
			if _, err := s.Vaults.Update(ctx, v); err != nil {
				return Exploration{}, err
			}
		}
	}

	e.Status = terminal
	e.EndTime = now
	e.Events = append(e.Events, Event{At: now, Text: "Returned to the vault."})
	return s.Explorations.Update(ctx, e)
}

// CompleteDue settles every trip past its end time. Used by the tick.
func (s *Service) CompleteDue(ctx context.Context, vaultID string) ([]Exploration, error) {
	es, err := s.Explorations.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	done := []Exploration{}
	for _, e := range es {
		if !e.ReadyToComplete(now) {
			continue
		}
		finished, err := s.Complete(ctx, e.ID)
		if err != nil {
			if gameerr.IsNoChange(err) {
				continue
			}
			return done, err
		}
		done = append(done, finished)
	}
	return done, nil
}

// poissonDraw approximates a Poisson sample: whole part guaranteed, fraction
// as one bernoulli trial. Good enough for loot pacing.
func poissonDraw(rng *rand.Rand, expected float64) int {
	n := int(expected)
	if rng.Float64() < expected-float64(n) {
		n++
	}
	return n
}
