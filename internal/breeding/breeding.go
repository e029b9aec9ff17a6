// Package breeding handles conception rolls, child stat generation and
// delivery of due pregnancies.
package breeding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/pregnancy"
	"overseer/internal/relationship"
	"overseer/internal/room"
	"overseer/internal/vault"
)

// Service couples the relationship layer to the pregnancy timed action.
type Service struct {
	Pregnancies   pregnancy.Repository
	Relationships relationship.Repository
	Dwellers      dweller.Repository
	Rooms         room.Repository
	Vaults        vault.Repository
	Config        *config.Game
	Now           func() time.Time
	Rand          *rand.Rand
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

// Conceive starts a pregnancy for a bonded pair. The pair must be at least
// romantic, both alive, one female and not already expecting.
func (s *Service) Conceive(ctx context.Context, motherID, fatherID string) (pregnancy.Pregnancy, error) {
	rel, ok, err := s.Relationships.GetPair(ctx, motherID, fatherID)
	if err != nil {
		return pregnancy.Pregnancy{}, err
	}
	if !ok || (rel.Type != relationship.TypeRomantic && rel.Type != relationship.TypePartner) {
		return pregnancy.Pregnancy{}, gameerr.Validationf("dwellers are not a romantic pair")
	}

	mother, ok, err := s.Dwellers.Get(ctx, motherID)
	if err != nil {
		return pregnancy.Pregnancy{}, err
	}
	if !ok {
		return pregnancy.Pregnancy{}, gameerr.NotFoundf("dweller %s not found", motherID)
	}
	father, ok, err := s.Dwellers.Get(ctx, fatherID)
	if err != nil {
		return pregnancy.Pregnancy{}, err
	}
	if !ok {
		return pregnancy.Pregnancy{}, gameerr.NotFoundf("dweller %s not found", fatherID)
	}
	if mother.IsDead || father.IsDead {
		return pregnancy.Pregnancy{}, gameerr.VaultOpf("dead dwellers cannot conceive")
	}
	if mother.Gender != "female" {
		return pregnancy.Pregnancy{}, gameerr.Validationf("%s cannot carry a pregnancy", mother.Name)
	}
	if _, expecting, err := s.Pregnancies.ActiveForMother(ctx, motherID); err != nil {
		return pregnancy.Pregnancy{}, err
	} else if expecting {
		return pregnancy.Pregnancy{}, gameerr.Conflictf("%s is already pregnant", mother.Name)
	}

	now := s.now()
	p := pregnancy.Pregnancy{
		ID:          uuid.NewString(),
		VaultID:     mother.VaultID,
		MotherID:    mother.ID,
		FatherID:    father.ID,
		ConceivedAt: now,
		DueAt:       now.Add(time.Duration(s.Config.Pregnancy.DurationHours) * time.Hour),
		Status:      pregnancy.StatusPregnant,
	}
	if err := s.Pregnancies.Create(ctx, p); err != nil {
		return pregnancy.Pregnancy{}, err
	}
	return p, nil
}

// TickConception rolls conception for partner pairs sharing a living-quarters
// room. Romantic pairs only conceive through the explicit action; the idle
// roll is reserved for settled couples at home. Returns the pregnancies
// started this tick.
func (s *Service) TickConception(ctx context.Context, vaultID string, ticks int) ([]pregnancy.Pregnancy, error) {
	if ticks <= 0 {
		return nil, nil
	}
	rels, err := s.Relationships.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	chance := s.Config.Relationships.ConceptionChancePerTick
	started := []pregnancy.Pregnancy{}
	for _, rel := range rels {
		if rel.Type != relationship.TypePartner {
			continue
		}
		a, okA, err := s.Dwellers.Get(ctx, rel.DwellerAID)
		if err != nil {
			return started, err
		}
		b, okB, err := s.Dwellers.Get(ctx, rel.DwellerBID)
		if err != nil {
			return started, err
		}
		if !okA || !okB || a.IsDead || b.IsDead {
			continue
		}
		if a.RoomID == nil || b.RoomID == nil || *a.RoomID != *b.RoomID {
			continue
		}
		rm, okR, err := s.Rooms.Get(ctx, *a.RoomID)
		if err != nil {
			return started, err
		}
		if !okR || rm.Category != room.CategoryLiving {
			continue
		}

		mother, father, ok := motherAndFather(a, b)
		if !ok {
			continue
		}
		hit := false
		for i := 0; i < ticks; i++ {
			if s.rng().Float64() < chance {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		p, err := s.Conceive(ctx, mother.ID, father.ID)
		if err != nil {
			if gameerr.IsConflict(err) || gameerr.IsValidation(err) {
				continue
			}
			return started, err
		}
		started = append(started, p)
	}
	return started, nil
}

func motherAndFather(a, b dweller.Dweller) (mother, father dweller.Dweller, ok bool) {
	switch {
	case a.Gender == "female" && b.Gender == "male":
		return a, b, true
	case a.Gender == "male" && b.Gender == "female":
		return b, a, true
	}
	return a, b, false
}

// ChildSpecial averages the parents' stats with a small random wobble, plus
// a rare across-the-board upgrade.
func (s *Service) ChildSpecial(mother, father dweller.Special) dweller.Special {
	cfg := s.Config.Relationships
	rng := s.rng()

	child := dweller.Special{}
	for _, st := range dweller.AllStats {
		v := (mother.Get(st) + father.Get(st)) / 2
		if cfg.ChildStatVariance > 0 {
			v += rng.Intn(2*cfg.ChildStatVariance+1) - cfg.ChildStatVariance
		}
		child.Set(st, clampStat(v))
	}
	if rng.Float64() < cfg.RarityUpgradeChance {
		for _, st := range dweller.AllStats {
			child.Set(st, clampStat(child.Get(st)+1))
		}
	}
	return child
}

func clampStat(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// Deliver turns a due pregnancy into a newborn dweller. Early delivery is
// rejected; there is no induced labor.
func (s *Service) Deliver(ctx context.Context, pregnancyID string) (pregnancy.Pregnancy, dweller.Dweller, error) {
	p, ok, err := s.Pregnancies.Get(ctx, pregnancyID)
	if err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}
	if !ok {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, gameerr.NotFoundf("pregnancy %s not found", pregnancyID)
	}
	if p.Status != pregnancy.StatusPregnant {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, gameerr.NoChangef("pregnancy %s is already %s", p.ID, p.Status)
	}
	now := s.now()
	if !p.IsDue(now) {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, gameerr.Validationf("pregnancy %s is not due yet", p.ID)
	}

	v, ok, err := s.Vaults.Get(ctx, p.VaultID)
	if err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}
	if !ok {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, gameerr.NotFoundf("vault %s not found", p.VaultID)
	}
	pop, err := s.Dwellers.CountAlive(ctx, p.VaultID)
	if err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}
	if pop >= v.PopulationMax {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, gameerr.VaultOpf("vault %s is at its population cap", v.Name)
	}

	mother, okM, err := s.Dwellers.Get(ctx, p.MotherID)
	if err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}
	father, okF, err := s.Dwellers.Get(ctx, p.FatherID)
	if err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}
	if !okM || !okF {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, gameerr.NotFoundf("parent dweller missing")
	}

	rng := s.rng()
	gender := "female"
	if rng.Intn(2) == 0 {
		gender = "male"
	}
	child := dweller.Dweller{
		ID:        uuid.NewString(),
		VaultID:   p.VaultID,
		Name:      childName(mother, rng),
		Gender:    gender,
		Special:   s.ChildSpecial(mother.Special, father.Special),
		Level:     1,
		Health:    50,
		MaxHealth: 50,
		Happiness: 75,
		Status:    dweller.StatusIdle,
	}
	if err := s.Dwellers.Create(ctx, child); err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}

	p.Status = pregnancy.StatusDelivered
	p.DeliveredAt = &now
	p.ChildID = &child.ID
	p, err = s.Pregnancies.Update(ctx, p)
	if err != nil {
		return pregnancy.Pregnancy{}, dweller.Dweller{}, err
	}
	return p, child, nil
}

// DeliverDue delivers every due pregnancy in the vault. Used by the tick;
// cap rejections are skipped, not fatal.
func (s *Service) DeliverDue(ctx context.Context, vaultID string) ([]dweller.Dweller, error) {
	ps, err := s.Pregnancies.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	born := []dweller.Dweller{}
	for _, p := range ps {
		if !p.IsDue(now) {
			continue
		}
		_, child, err := s.Deliver(ctx, p.ID)
		if err != nil {
			if gameerr.IsNoChange(err) || gameerr.IsVaultOp(err) {
				continue
			}
			return born, err
		}
		born = append(born, child)
	}
	return born, nil
}

var childNames = []string{
	"Avery", "Blake", "Casey", "Dana", "Ellis", "Frankie",
	"Harper", "Jesse", "Morgan", "Quinn", "Riley", "Sage",
}

func childName(mother dweller.Dweller, rng *rand.Rand) string {
	first := childNames[rng.Intn(len(childNames))]
	// Inherit the mother's family name when she has one.
	if i := lastSpace(mother.Name); i >= 0 {
		return fmt.Sprintf("%s%s", first, mother.Name[i:])
	}
	return first
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}
