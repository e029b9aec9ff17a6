package relationship

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
)

// Service grows bonds between co-located dwellers and manages explicit
// partner transitions.
type Service struct {
	Relationships Repository
	Dwellers      dweller.Repository
	Config        *config.Game
	Now           func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Compatibility scores a pair 0-100 from a weighted blend of stat likeness,
// mood, level gap and whether they share a room.
func (s *Service) Compatibility(a, b dweller.Dweller) float64 {
	w := s.Config.Relationships.Weights

	// Stat likeness: identical SPECIAL spreads score 100.
	diff := 0
	for _, st := range dweller.AllStats {
		diff += abs(a.Special.Get(st) - b.Special.Get(st))
	}
	special := 100 - float64(diff)*100/63
	if special < 0 {
		special = 0
	}

	happiness := float64(a.Happiness+b.Happiness) / 2

	gap := math.Abs(float64(a.Level - b.Level))
	level := 100 - gap*4
	if level < 0 {
		level = 0
	}

	proximity := 0.0
	if a.RoomID != nil && b.RoomID != nil && *a.RoomID == *b.RoomID {
		proximity = 100
	}

	return w.Special*special + w.Happiness*happiness + w.Level*level + w.Proximity*proximity
}

// Tick advances affinity for every pair sharing a room, promoting
// acquaintances to romantic once they cross the threshold. Returns the
// relationships that were promoted this tick.
func (s *Service) Tick(ctx context.Context, vaultID string, ticks int) ([]Relationship, error) {
	if ticks <= 0 {
		return nil, nil
	}
	ds, err := s.Dwellers.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	byRoom := map[string][]dweller.Dweller{}
	for _, d := range ds {
		if d.IsDead || d.RoomID == nil {
			continue
		}
		byRoom[*d.RoomID] = append(byRoom[*d.RoomID], d)
	}

	cfg := s.Config.Relationships
	now := s.now()
	promoted := []Relationship{}
	for _, occupants := range byRoom {
		for i := 0; i < len(occupants); i++ {
			for j := i + 1; j < len(occupants); j++ {
				a, b := occupants[i], occupants[j]
				rel, err := s.ensurePair(ctx, a, b, now)
				if err != nil {
					return promoted, err
				}

				wasRomantic := rel.Type != TypeAcquaintance
				// Affinity grows by a fixed amount per shared tick; compatibility
				// scores pairs but never throttles the growth.
				rel.AddAffinity(cfg.AffinityPerTick * float64(ticks))
				if !wasRomantic && rel.Affinity >= cfg.RomanceThreshold {
					rel.Type = TypeRomantic
				}
				rel.UpdatedAt = now
				rel, err = s.Relationships.Update(ctx, rel)
				if err != nil {
					return promoted, err
				}
				if !wasRomantic && rel.Type == TypeRomantic {
					promoted = append(promoted, rel)
				}
			}
		}
	}
	return promoted, nil
}

func (s *Service) ensurePair(ctx context.Context, a, b dweller.Dweller, now time.Time) (Relationship, error) {
	rel, ok, err := s.Relationships.GetPair(ctx, a.ID, b.ID)
	if err != nil {
		return Relationship{}, err
	}
	if ok {
		return rel, nil
	}
	aid, bid := PairKey(a.ID, b.ID)
	rel = Relationship{
		ID:         uuid.NewString(),
		VaultID:    a.VaultID,
		DwellerAID: aid,
		DwellerBID: bid,
		Type:       TypeAcquaintance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Relationships.Create(ctx, rel); err != nil {
		return Relationship{}, err
	}
	return rel, nil
}

// SetPartners is the explicit partner transition; romance alone never sets
// PartnerID.
func (s *Service) SetPartners(ctx context.Context, aID, bID string) (Relationship, error) {
	rel, ok, err := s.Relationships.GetPair(ctx, aID, bID)
	if err != nil {
		return Relationship{}, err
	}
	if !ok {
		return Relationship{}, gameerr.NotFoundf("no relationship between %s and %s", aID, bID)
	}
	if rel.Type == TypePartner {
		return Relationship{}, gameerr.NoChangef("dwellers are already partners")
	}
	if rel.Type != TypeRomantic {
		return Relationship{}, gameerr.Validationf("relationship must be romantic before partnering, is %s", rel.Type)
	}

	a, okA, err := s.Dwellers.Get(ctx, aID)
	if err != nil {
		return Relationship{}, err
	}
	b, okB, err := s.Dwellers.Get(ctx, bID)
	if err != nil {
		return Relationship{}, err
	}
	if !okA || !okB {
		return Relationship{}, gameerr.NotFoundf("dweller not found")
	}
	if a.PartnerID != nil || b.PartnerID != nil {
		return Relationship{}, gameerr.Conflictf("one of the dwellers already has a partner")
	}

	a.PartnerID = &b.ID
	b.PartnerID = &a.ID
	if _, err := s.Dwellers.Update(ctx, a); err != nil {
		return Relationship{}, err
	}
	if _, err := s.Dwellers.Update(ctx, b); err != nil {
		return Relationship{}, err
	}

	rel.Type = TypePartner
	rel.UpdatedAt = s.now()
	return s.Relationships.Update(ctx, rel)
}

// BreakUp deletes the pair's relationship and clears any partner links.
func (s *Service) BreakUp(ctx context.Context, aID, bID string) error {
	rel, ok, err := s.Relationships.GetPair(ctx, aID, bID)
	if err != nil {
		return err
	}
	if !ok {
		return gameerr.NotFoundf("no relationship between %s and %s", aID, bID)
	}

	for _, id := range []string{aID, bID} {
		d, ok, err := s.Dwellers.Get(ctx, id)
		if err != nil {
			return err
		}
		if ok && d.PartnerID != nil && rel.Involves(*d.PartnerID) {
			d.PartnerID = nil
			if _, err := s.Dwellers.Update(ctx, d); err != nil {
				return err
			}
		}
	}
	return s.Relationships.Delete(ctx, rel.ID)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
