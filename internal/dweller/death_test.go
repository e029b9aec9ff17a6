package dweller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overseer/internal/config"
	"overseer/internal/gameerr"
	"overseer/internal/vault"
)

func newDeathService(t *testing.T, now time.Time) (*DeathService, *MemoryRepo, *vault.MemoryRepo) {
	t.Helper()
	dwellers := NewMemoryRepo()
	vaults := vault.NewMemoryRepo()
	svc := &DeathService{
		Dwellers: dwellers,
		Vaults:   vaults,
		Config:   config.Default(),
		Now:      func() time.Time { return now },
	}
	return svc, dwellers, vaults
}

func TestRevivalCostTiers(t *testing.T) {
	svc, _, _ := newDeathService(t, time.Now())

	assert.Equal(t, 250, svc.RevivalCost(5))
	assert.Equal(t, 450, svc.RevivalCost(6))
	assert.Equal(t, 1100, svc.RevivalCost(11))
	assert.Equal(t, 2000, svc.RevivalCost(50), "cost caps out")
}

func TestMarkDeadIsIdempotentGuard(t *testing.T) {
	svc, _, _ := newDeathService(t, time.Now())
	d := Dweller{ID: "d1", Name: "Ada", Health: 0, Status: StatusWorking}

	require.NoError(t, svc.MarkDead(&d, "incident", ""))
	assert.True(t, d.IsDead)
	assert.Equal(t, StatusDead, d.Status)
	assert.Nil(t, d.RoomID)
	assert.NotNil(t, d.DeathTimestamp)
	assert.NotEmpty(t, d.Epitaph)

	err := svc.MarkDead(&d, "incident", "")
	assert.True(t, gameerr.IsNoChange(err))
}

func TestReviveDeductsCapsAndRestoresHalfHealth(t *testing.T) {
	now := time.Now()
	svc, dwellers, vaults := newDeathService(t, now)
	ctx := context.Background()

	require.NoError(t, vaults.Create(ctx, vault.Vault{ID: "v1", Caps: 1000}))
	ts := now.Add(-time.Hour)
	require.NoError(t, dwellers.Create(ctx, Dweller{
		ID: "d1", VaultID: "v1", Name: "Ada", Level: 6,
		MaxHealth: 120, IsDead: true, Status: StatusDead,
		DeathTimestamp: &ts, DeathCause: "incident",
	}))

	d, err := svc.Revive(ctx, "d1")
	require.NoError(t, err)

	assert.False(t, d.IsDead)
	assert.Equal(t, StatusIdle, d.Status)
	assert.Equal(t, 60.0, d.Health)
	assert.Nil(t, d.DeathTimestamp)

	v, _, _ := vaults.Get(ctx, "v1")
	assert.Equal(t, 550, v.Caps, "level 6 costs 450")
}

func TestReviveGuards(t *testing.T) {
	now := time.Now()
	svc, dwellers, vaults := newDeathService(t, now)
	ctx := context.Background()

	require.NoError(t, vaults.Create(ctx, vault.Vault{ID: "v1", Caps: 10}))

	_, err := svc.Revive(ctx, "ghost")
	assert.True(t, gameerr.IsNotFound(err))

	require.NoError(t, dwellers.Create(ctx, Dweller{ID: "alive", VaultID: "v1", Name: "Bo"}))
	_, err = svc.Revive(ctx, "alive")
	assert.True(t, gameerr.IsNoChange(err), "reviving the living is a no-op guard")

	require.NoError(t, dwellers.Create(ctx, Dweller{
		ID: "gone", VaultID: "v1", Name: "Cy", IsDead: true, IsPermanentlyDead: true,
	}))
	_, err = svc.Revive(ctx, "gone")
	assert.True(t, gameerr.IsVaultOp(err), "permanent death blocks revival")

	ts := now.Add(-time.Hour)
	require.NoError(t, dwellers.Create(ctx, Dweller{
		ID: "broke", VaultID: "v1", Name: "Di", Level: 10, IsDead: true, DeathTimestamp: &ts,
	}))
	_, err = svc.Revive(ctx, "broke")
	assert.True(t, gameerr.IsVaultOp(err), "insufficient caps")
	v, _, _ := vaults.Get(ctx, "v1")
	assert.Equal(t, 10, v.Caps, "failed revival charges nothing")
}

func TestDaysUntilPermanent(t *testing.T) {
	now := time.Date(2280, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newDeathService(t, now)

	alive := Dweller{}
	assert.Nil(t, svc.DaysUntilPermanent(alive))

	ts := now.Add(-3 * 24 * time.Hour)
	dead := Dweller{IsDead: true, DeathTimestamp: &ts}
	left := svc.DaysUntilPermanent(dead)
	require.NotNil(t, left)
	assert.Equal(t, 4, *left)

	old := now.Add(-30 * 24 * time.Hour)
	ancient := Dweller{IsDead: true, DeathTimestamp: &old}
	left = svc.DaysUntilPermanent(ancient)
	require.NotNil(t, left)
	assert.Equal(t, 0, *left, "never negative")
}

func TestSweepPermanentDeathsIsIdempotent(t *testing.T) {
	now := time.Now()
	svc, dwellers, _ := newDeathService(t, now)
	ctx := context.Background()

	fresh := now.Add(-time.Hour)
	stale := now.Add(-8 * 24 * time.Hour)
	require.NoError(t, dwellers.Create(ctx, Dweller{ID: "fresh", IsDead: true, DeathTimestamp: &fresh}))
	require.NoError(t, dwellers.Create(ctx, Dweller{ID: "stale", IsDead: true, DeathTimestamp: &stale}))
	require.NoError(t, dwellers.Create(ctx, Dweller{ID: "alive"}))

	n, err := svc.SweepPermanentDeaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, _, _ := dwellers.Get(ctx, "stale")
	assert.True(t, d.IsPermanentlyDead)
	d, _, _ = dwellers.Get(ctx, "fresh")
	assert.False(t, d.IsPermanentlyDead)

	n, err = svc.SweepPermanentDeaths(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second sweep finds nothing")
}
