package relationship

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
)

type fixture struct {
	svc      *Service
	dwellers *dweller.MemoryRepo
	rels     *MemoryRepo
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		dwellers: dweller.NewMemoryRepo(),
		rels:     NewMemoryRepo(),
		now:      time.Date(2280, 4, 20, 14, 0, 0, 0, time.UTC),
	}
	f.svc = &Service{
		Relationships: f.rels,
		Dwellers:      f.dwellers,
		Config:        config.Default(),
		Now:           func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) addDweller(t *testing.T, id string, roomID *string, happiness int) {
	t.Helper()
	require.NoError(t, f.dwellers.Create(context.Background(), dweller.Dweller{
		ID: id, VaultID: "v1", Name: id, Level: 5, Happiness: happiness, RoomID: roomID,
		Special: dweller.Special{Strength: 5, Perception: 5, Endurance: 5, Charisma: 5, Intelligence: 5, Agility: 5, Luck: 5},
	}))
}

func TestPairKeyIsCanonical(t *testing.T) {
	a1, b1 := PairKey("zed", "abe")
	a2, b2 := PairKey("abe", "zed")

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "abe", a1)
}

func TestCompatibilityIdenticalColocatedPair(t *testing.T) {
	f := newFixture(t)
	room := "diner"

	a := dweller.Dweller{Level: 5, Happiness: 100, RoomID: &room,
		Special: dweller.Special{Strength: 5, Perception: 5, Endurance: 5, Charisma: 5, Intelligence: 5, Agility: 5, Luck: 5}}
	b := a

	// 0.4*100 + 0.2*100 + 0.2*100 + 0.2*100
	assert.InDelta(t, 100.0, f.svc.Compatibility(a, b), 0.001)
}

func TestCompatibilityPenalizesDistanceAndGap(t *testing.T) {
	f := newFixture(t)
	roomA, roomB := "diner", "reactor"

	a := dweller.Dweller{Level: 1, Happiness: 50, RoomID: &roomA,
		Special: dweller.Special{Strength: 10, Perception: 10, Endurance: 10, Charisma: 10, Intelligence: 10, Agility: 10, Luck: 10}}
	b := dweller.Dweller{Level: 11, Happiness: 50, RoomID: &roomB,
		Special: dweller.Special{Strength: 1, Perception: 1, Endurance: 1, Charisma: 1, Intelligence: 1, Agility: 1, Luck: 1}}

	// special: 63 apart -> 0; happiness 50; level gap 10 -> 60; proximity 0.
	assert.InDelta(t, 0.4*0+0.2*50+0.2*60+0.2*0, f.svc.Compatibility(a, b), 0.001)
}

func TestTickCreatesAcquaintanceAndGrowsAffinity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := "diner"
	f.addDweller(t, "a", &room, 100)
	f.addDweller(t, "b", &room, 100)

	promoted, err := f.svc.Tick(ctx, "v1", 10)
	require.NoError(t, err)
	assert.Empty(t, promoted, "ten ticks is not enough for romance")

	rel, ok, err := f.rels.GetPair(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TypeAcquaintance, rel.Type)
	// 0.5 per shared tick.
	assert.InDelta(t, 5.0, rel.Affinity, 0.001)
}

func TestAffinityGainIgnoresCompatibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := "diner"
	f.addDweller(t, "a", &room, 100)
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "b", VaultID: "v1", Name: "b", Level: 40, Happiness: 0, RoomID: &room,
		Special: dweller.Special{Strength: 10, Perception: 10, Endurance: 10, Charisma: 10, Intelligence: 10, Agility: 10, Luck: 10},
	}))

	// A badly matched pair still reaches romance on the same schedule.
	promoted, err := f.svc.Tick(ctx, "v1", 140)
	require.NoError(t, err)
	require.Len(t, promoted, 1)

	rel, _, _ := f.rels.GetPair(ctx, "a", "b")
	assert.InDelta(t, 70.0, rel.Affinity, 0.001)
}

func TestTickPromotesAtThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := "diner"
	f.addDweller(t, "a", &room, 100)
	f.addDweller(t, "b", &room, 100)

	// 140 ticks at 0.5 affinity/tick reaches exactly the threshold of 70.
	promoted, err := f.svc.Tick(ctx, "v1", 140)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, TypeRomantic, promoted[0].Type)

	// Already romantic: never reported as promoted again.
	promoted, err = f.svc.Tick(ctx, "v1", 10)
	require.NoError(t, err)
	assert.Empty(t, promoted)
}

func TestTickSkipsSeparatedAndDeadDwellers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomA, roomB := "diner", "reactor"
	f.addDweller(t, "a", &roomA, 100)
	f.addDweller(t, "b", &roomB, 100)

	_, err := f.svc.Tick(ctx, "v1", 100)
	require.NoError(t, err)

	_, ok, err := f.rels.GetPair(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok, "no bond without sharing a room")
}

func TestAffinityCapsAtHundred(t *testing.T) {
	rel := Relationship{Affinity: 99}
	rel.AddAffinity(50)
	assert.Equal(t, 100.0, rel.Affinity)
}

func TestSetPartners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDweller(t, "a", nil, 80)
	f.addDweller(t, "b", nil, 80)

	_, err := f.svc.SetPartners(ctx, "a", "b")
	assert.True(t, gameerr.IsNotFound(err), "strangers cannot partner")

	require.NoError(t, f.rels.Create(ctx, Relationship{
		ID: "r1", VaultID: "v1", DwellerAID: "a", DwellerBID: "b",
		Type: TypeAcquaintance, Affinity: 30,
	}))
	_, err = f.svc.SetPartners(ctx, "a", "b")
	assert.True(t, gameerr.IsValidation(err), "acquaintances cannot partner")

	rel, _, _ := f.rels.GetPair(ctx, "a", "b")
	rel.Type = TypeRomantic
	_, err = f.rels.Update(ctx, rel)
	require.NoError(t, err)

	rel, err = f.svc.SetPartners(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, TypePartner, rel.Type)

	a, _, _ := f.dwellers.Get(ctx, "a")
	b, _, _ := f.dwellers.Get(ctx, "b")
	require.NotNil(t, a.PartnerID)
	require.NotNil(t, b.PartnerID)
	assert.Equal(t, "b", *a.PartnerID)
	assert.Equal(t, "a", *b.PartnerID)

	_, err = f.svc.SetPartners(ctx, "a", "b")
	assert.True(t, gameerr.IsNoChange(err))
}

func TestSetPartnersRejectsTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDweller(t, "a", nil, 80)
	f.addDweller(t, "b", nil, 80)
	f.addDweller(t, "c", nil, 80)

	taken := "c"
	a, _, _ := f.dwellers.Get(ctx, "a")
	a.PartnerID = &taken
	_, err := f.dwellers.Update(ctx, a)
	require.NoError(t, err)

	require.NoError(t, f.rels.Create(ctx, Relationship{
		ID: "r1", VaultID: "v1", DwellerAID: "a", DwellerBID: "b",
		Type: TypeRomantic, Affinity: 80,
	}))
	_, err = f.svc.SetPartners(ctx, "a", "b")
	assert.True(t, gameerr.IsConflict(err))
}

func TestBreakUpClearsPartnerLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDweller(t, "a", nil, 80)
	f.addDweller(t, "b", nil, 80)

	require.NoError(t, f.rels.Create(ctx, Relationship{
		ID: "r1", VaultID: "v1", DwellerAID: "a", DwellerBID: "b",
		Type: TypeRomantic, Affinity: 80,
	}))
	_, err := f.svc.SetPartners(ctx, "a", "b")
	require.NoError(t, err)

	require.NoError(t, f.svc.BreakUp(ctx, "a", "b"))

	a, _, _ := f.dwellers.Get(ctx, "a")
	b, _, _ := f.dwellers.Get(ctx, "b")
	assert.Nil(t, a.PartnerID)
	assert.Nil(t, b.PartnerID)

	_, ok, err := f.rels.GetPair(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}
