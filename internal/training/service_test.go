package training

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/gameerr"
	"overseer/internal/room"
)

type fixture struct {
	svc      *Service
	dwellers *dweller.MemoryRepo
	rooms    *room.MemoryRepo
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		dwellers: dweller.NewMemoryRepo(),
		rooms:    room.NewMemoryRepo(),
		now:      time.Date(2280, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	f.svc = &Service{
		Trainings: NewMemoryRepo(),
		Dwellers:  f.dwellers,
		Rooms:     f.rooms,
		Config:    config.Default(),
		Now:       func() time.Time { return f.now },
	}
	ctx := context.Background()
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d1", VaultID: "v1", Name: "Ada", Status: dweller.StatusIdle,
		Special: dweller.Special{Strength: 3, Perception: 1, Endurance: 1, Charisma: 1, Intelligence: 1, Agility: 1, Luck: 1},
	}))
	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "gym", VaultID: "v1", Name: "Weight Room",
		Category: room.CategoryTraining, Ability: "strength", Tier: 1, Size: 1, Capacity: 2,
	}))
	return f
}

func TestDuration(t *testing.T) {
	f := newFixture(t)

	// base 3600 + 3*1800 = 9000s at tier 1
	assert.Equal(t, 9000*time.Second, f.svc.Duration(3, 1))
	// tier 2 discounts to 75%
	assert.Equal(t, 6750*time.Second, f.svc.Duration(3, 2))
	// tier 3 discounts to 60%
	assert.Equal(t, 5400*time.Second, f.svc.Duration(3, 3))
}

func TestStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)

	assert.Equal(t, StatusActive, tr.Status)
	assert.Equal(t, dweller.Strength, tr.Stat)
	assert.Equal(t, 3, tr.CurrentStatValue)
	assert.Equal(t, 4, tr.TargetStatValue)
	assert.Equal(t, f.now.Add(9000*time.Second), tr.CompletesAt)

	d, _, _ := f.dwellers.Get(ctx, "d1")
	assert.Equal(t, dweller.StatusTraining, d.Status)
}

func TestStartRejectsSecondTraining(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, "d1", "gym")
	assert.True(t, gameerr.IsConflict(err))
}

func TestStartRejectsMaxedStat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, _, _ := f.dwellers.Get(ctx, "d1")
	d.Special.Strength = 10
	_, err := f.dwellers.Update(ctx, d)
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, "d1", "gym")
	assert.True(t, gameerr.IsValidation(err))
	assert.Contains(t, err.Error(), "maximum")
}

func TestStartRejectsExploringDweller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, _, _ := f.dwellers.Get(ctx, "d1")
	d.Status = dweller.StatusExploring
	_, err := f.dwellers.Update(ctx, d)
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, "d1", "gym")
	assert.True(t, gameerr.IsConflict(err), "explorers cannot train from the wasteland")
}

func TestStartRejectsNonTrainingRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "diner", VaultID: "v1", Name: "Diner", Category: room.CategoryProduction, Ability: room.AbilityFood,
	}))
	_, err := f.svc.Start(ctx, "d1", "diner")
	assert.True(t, gameerr.IsValidation(err))
}

func TestProgressIsNonDecreasing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)

	last := -1.0
	for i := 0; i < 10; i++ {
		p := tr.ProgressPercentage(f.now)
		assert.GreaterOrEqual(t, p, last)
		last = p
		f.now = f.now.Add(20 * time.Minute)
	}
	assert.Equal(t, 100.0, tr.ProgressPercentage(f.now.Add(24*time.Hour)))
}

func TestCompleteAppliesStatOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)

	// Too early.
	_, err = f.svc.Complete(ctx, tr.ID)
	assert.True(t, gameerr.IsValidation(err))

	f.now = tr.CompletesAt
	done, err := f.svc.Complete(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, 100.0, done.Progress)

	d, _, _ := f.dwellers.Get(ctx, "d1")
	assert.Equal(t, 4, d.Special.Strength)
	assert.Equal(t, dweller.StatusIdle, d.Status)

	// Second completion hits the status guard before touching the dweller.
	_, err = f.svc.Complete(ctx, tr.ID)
	assert.True(t, gameerr.IsNoChange(err))
	d, _, _ = f.dwellers.Get(ctx, "d1")
	assert.Equal(t, 4, d.Special.Strength, "stat applied exactly once")
}

func TestCancelHasNoStatEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 0.0, cancelled.Progress)

	d, _, _ := f.dwellers.Get(ctx, "d1")
	assert.Equal(t, 3, d.Special.Strength)
	assert.Equal(t, dweller.StatusIdle, d.Status)

	_, err = f.svc.Cancel(ctx, tr.ID)
	assert.True(t, gameerr.IsNoChange(err))
}

// failingDwellerRepo rejects writes so persistence failures surface.
type failingDwellerRepo struct {
	*dweller.MemoryRepo
	updateErr error
}

func (r *failingDwellerRepo) Update(ctx context.Context, d dweller.Dweller) (dweller.Dweller, error) {
	if r.updateErr != nil {
		return dweller.Dweller{}, r.updateErr
	}
	return r.MemoryRepo.Update(ctx, d)
}

func TestCancelSurfacesDwellerWriteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)

	broken := &failingDwellerRepo{MemoryRepo: f.dwellers, updateErr: errors.New("disk full")}
	f.svc.Dwellers = broken

	_, err = f.svc.Cancel(ctx, tr.ID)
	require.ErrorContains(t, err, "disk full")

	// The training stays active rather than orphaning a TRAINING dweller.
	kept, _, err := f.svc.Trainings.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, kept.Status)
	d, _, _ := f.dwellers.Get(ctx, "d1")
	assert.Equal(t, dweller.StatusTraining, d.Status)
}

func TestCompleteDueFinishesOnlyReadyTrainings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d2", VaultID: "v1", Name: "Bo", Status: dweller.StatusIdle,
		Special: dweller.Special{Strength: 9},
	}))

	t1, err := f.svc.Start(ctx, "d1", "gym")
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, "d2", "gym")
	require.NoError(t, err)

	// d1 trains stat 3 (9000s), d2 trains stat 9 (19800s).
	f.now = t1.CompletesAt
	done, err := f.svc.CompleteDue(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "d1", done[0].DwellerID)
}
