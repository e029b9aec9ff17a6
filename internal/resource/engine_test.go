package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/room"
	"overseer/internal/vault"
)

type fixture struct {
	eng      *Engine
	vaults   *vault.MemoryRepo
	rooms    *room.MemoryRepo
	dwellers *dweller.MemoryRepo
}

func newFixture(t *testing.T, v vault.Vault) *fixture {
	t.Helper()
	f := &fixture{
		vaults:   vault.NewMemoryRepo(),
		rooms:    room.NewMemoryRepo(),
		dwellers: dweller.NewMemoryRepo(),
	}
	f.eng = &Engine{
		Vaults:   f.vaults,
		Rooms:    f.rooms,
		Dwellers: f.dwellers,
		Config:   config.Default(),
	}
	require.NoError(t, f.vaults.Create(context.Background(), v))
	return f
}

func TestTickProducesFromStaffedRooms(t *testing.T) {
	f := newFixture(t, vault.Vault{
		ID: "v1", Power: 50, PowerMax: 100, Food: 50, FoodMax: 100, Water: 50, WaterMax: 100,
	})
	ctx := context.Background()

	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "reactor", VaultID: "v1", Category: room.CategoryProduction,
		Ability: room.AbilityPower, Tier: 1, Size: 1, Capacity: 2,
		DwellerIDs: []string{"d1"},
	}))
	room1 := "reactor"
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d1", VaultID: "v1", Health: 100, MaxHealth: 100, Happiness: 80, RoomID: &room1,
	}))
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d2", VaultID: "v1", Health: 100, MaxHealth: 100, Happiness: 80,
	}))

	res, err := f.eng.Tick(ctx, "v1", time.Hour)
	require.NoError(t, err)

	// 0.04/s at tier 1, size 1, half staffed, for 3600s.
	assert.InDelta(t, 72.0, res.Produced.Power, 0.001)
	assert.InDelta(t, 18.0, res.Consumed.Power, 0.001, "tier 1 room draws 0.005/s")
	// Two living dwellers at 0.002/s each.
	assert.InDelta(t, 14.4, res.Consumed.Food, 0.001)
	assert.InDelta(t, 14.4, res.Consumed.Water, 0.001)
	assert.False(t, res.PowerOut)
	assert.False(t, res.FoodOut)
	assert.Empty(t, res.Starved)

	v, _, _ := f.vaults.Get(ctx, "v1")
	assert.Equal(t, 100.0, v.Power, "storage clamps at max")
	assert.InDelta(t, 35.6, v.Food, 0.001)
	assert.InDelta(t, 35.6, v.Water, 0.001)
}

func TestTickUnstaffedRoomProducesNothing(t *testing.T) {
	f := newFixture(t, vault.Vault{ID: "v1", Power: 50, PowerMax: 100, Food: 50, FoodMax: 100, Water: 50, WaterMax: 100})
	ctx := context.Background()

	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "reactor", VaultID: "v1", Category: room.CategoryProduction,
		Ability: room.AbilityPower, Tier: 1, Size: 1, Capacity: 2,
	}))

	res, err := f.eng.Tick(ctx, "v1", time.Hour)
	require.NoError(t, err)
	assert.Zero(t, res.Produced.Power)
	assert.InDelta(t, 18.0, res.Consumed.Power, 0.001, "empty rooms still draw power")
}

func TestTickStarvationHurtsEveryLivingDweller(t *testing.T) {
	f := newFixture(t, vault.Vault{ID: "v1", Power: 50, PowerMax: 100, FoodMax: 100, WaterMax: 100})
	ctx := context.Background()

	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d1", VaultID: "v1", Health: 100, MaxHealth: 100, Happiness: 80,
	}))
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "dead", VaultID: "v1", IsDead: true,
	}))

	res, err := f.eng.Tick(ctx, "v1", 2*time.Hour)
	require.NoError(t, err)

	assert.True(t, res.FoodOut)
	assert.Equal(t, []string{"d1"}, res.Starved, "the dead do not starve")

	d, _, _ := f.dwellers.Get(ctx, "d1")
	assert.Equal(t, 90.0, d.Health, "5 health per hour without food or water")
}

func TestTickPowerOutDropsHappiness(t *testing.T) {
	f := newFixture(t, vault.Vault{ID: "v1", PowerMax: 100, Food: 80, FoodMax: 100, Water: 80, WaterMax: 100})
	ctx := context.Background()

	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d1", VaultID: "v1", Health: 100, MaxHealth: 100, Happiness: 80,
	}))
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d2", VaultID: "v1", Health: 100, MaxHealth: 100, Happiness: 75,
	}))

	res, err := f.eng.Tick(ctx, "v1", time.Hour)
	require.NoError(t, err)
	assert.True(t, res.PowerOut)

	d, _, _ := f.dwellers.Get(ctx, "d1")
	assert.Equal(t, 78, d.Happiness, "2 happiness per dark hour")

	// Vault mood is the truncated average: (78+73)/2 = 75.
	v, _, _ := f.vaults.Get(ctx, "v1")
	assert.Equal(t, 75, v.Happiness)
}

func TestTickMissingVaultIsNotFound(t *testing.T) {
	f := newFixture(t, vault.Vault{ID: "v1"})

	_, err := f.eng.Tick(context.Background(), "ghost", time.Hour)
	assert.True(t, gameerr.IsNotFound(err))
}

func TestTickZeroElapsedIsNoOp(t *testing.T) {
	f := newFixture(t, vault.Vault{ID: "v1", Power: 50, PowerMax: 100})

	res, err := f.eng.Tick(context.Background(), "v1", 0)
	require.NoError(t, err)
	assert.Equal(t, TickResult{}, res)
}
