package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/game"
	"overseer/internal/gamestate"
	"overseer/internal/quest"
	"overseer/internal/room"
	"overseer/internal/vault"
)

type fixture struct {
	mux      *http.ServeMux
	app      *App
	vaults   *vault.MemoryRepo
	rooms    *room.MemoryRepo
	dwellers *dweller.MemoryRepo
	quests   *quest.MemoryRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mux:      http.NewServeMux(),
		vaults:   vault.NewMemoryRepo(),
		rooms:    room.NewMemoryRepo(),
		dwellers: dweller.NewMemoryRepo(),
		quests:   quest.NewMemoryRepo(),
	}
	cfg := config.Default()
	clock := game.NewFakeClock(time.Date(2280, 1, 15, 9, 0, 0, 0, time.UTC))
	states := &gamestate.Store{Repo: gamestate.NewMemoryRepo(), Now: clock.Now}
	questSvc := &quest.Service{
		Quests: f.quests,
		Prerequisites: &quest.PrerequisiteService{
			Quests: f.quests, Vaults: f.vaults, Dwellers: f.dwellers, Rooms: f.rooms,
		},
		Rewards: &quest.RewardService{Vaults: f.vaults, Dwellers: f.dwellers},
		Now:     clock.Now,
	}
	f.app = &App{
		Engine: &game.Engine{
			Vaults: f.vaults, Dwellers: f.dwellers, States: states,
			Config: cfg, Clock: clock,
		},
		Vaults:       f.vaults,
		Rooms:        f.rooms,
		Dwellers:     f.dwellers,
		QuestService: questSvc,
		States:       states,
		Config:       cfg,
	}
	RegisterAPIRoutes(f.mux, &RouteRegistry{}, f.app)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func TestCreateVaultSeedsStartingState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w := f.do(t, "POST", "/api/vaults", `{"name":"Vault 111"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var v vault.Vault
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "Vault 111", v.Name)
	assert.Equal(t, 500, v.Caps)

	rooms, err := f.rooms.ListByVault(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.True(t, rooms[0].IsVaultDoor())

	qs, err := f.quests.ListQuestsByVault(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, qs, 3, "the starter quest line is installed")

	g, err := f.app.States.GetOrCreate(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, g.IsActive)
}

func TestCreateVaultRejectsMissingName(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/api/vaults", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/api/vaults", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorCodesMapToStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// NOT_FOUND -> 404
	w := f.do(t, "GET", "/api/vaults/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])

	// NO_CHANGE -> 409
	require.NoError(t, f.vaults.Create(ctx, vault.Vault{ID: "v1", Name: "Vault 42"}))
	w = f.do(t, "POST", "/api/vaults/v1/pause", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, "POST", "/api/vaults/v1/pause", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// VALIDATION -> 400
	w = f.do(t, "POST", "/api/vaults/v1/tick", `{"speedup":99}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildRoomValidatesSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.vaults.Create(ctx, vault.Vault{ID: "v1", Name: "Vault 42"}))

	w := f.do(t, "POST", "/api/vaults/v1/rooms",
		`{"name":"Mega Diner","category":"production","ability":"food","size":9,"row":1,"col":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/api/vaults/v1/rooms",
		`{"name":"Diner","category":"production","ability":"food","size":2,"row":1,"col":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rm room.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rm))
	assert.Equal(t, 1, rm.Tier)
	assert.Equal(t, 4, rm.Capacity, "derived on build")
	assert.InDelta(t, 40.0, rm.Output, 0.001)
}

func TestAssignMovesDwellerBetweenRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.vaults.Create(ctx, vault.Vault{ID: "v1", Name: "Vault 42"}))
	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "diner", VaultID: "v1", Name: "Diner", Category: room.CategoryProduction, Capacity: 2,
	}))
	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "reactor", VaultID: "v1", Name: "Reactor", Category: room.CategoryProduction, Capacity: 2,
	}))
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d1", VaultID: "v1", Name: "Ada", Status: dweller.StatusIdle,
	}))

	w := f.do(t, "POST", "/api/dwellers/d1/assign", `{"room_id":"diner"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	d, _, _ := f.dwellers.Get(ctx, "d1")
	require.NotNil(t, d.RoomID)
	assert.Equal(t, "diner", *d.RoomID)
	assert.Equal(t, dweller.StatusWorking, d.Status)

	w = f.do(t, "POST", "/api/dwellers/d1/assign", `{"room_id":"reactor"}`)
	require.Equal(t, http.StatusOK, w.Code)

	old, _, _ := f.rooms.Get(ctx, "diner")
	assert.Empty(t, old.DwellerIDs, "reassignment vacates the old room")
	next, _, _ := f.rooms.Get(ctx, "reactor")
	assert.Equal(t, []string{"d1"}, next.DwellerIDs)
}

func TestAssignRejectsFullRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.vaults.Create(ctx, vault.Vault{ID: "v1", Name: "Vault 42"}))
	require.NoError(t, f.rooms.Create(ctx, room.Room{
		ID: "diner", VaultID: "v1", Name: "Diner", Category: room.CategoryProduction,
		Capacity: 1, DwellerIDs: []string{"other"},
	}))
	require.NoError(t, f.dwellers.Create(ctx, dweller.Dweller{
		ID: "d1", VaultID: "v1", Name: "Ada", Status: dweller.StatusIdle,
	}))

	w := f.do(t, "POST", "/api/dwellers/d1/assign", `{"room_id":"diner"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCompleteQuestEndpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.vaults.Create(ctx, vault.Vault{ID: "v1", Name: "Vault 42"}))
	require.NoError(t, f.quests.CreateQuest(ctx, quest.Quest{
		ID: "q1", VaultID: "v1", Title: "Claim Me", Status: quest.StatusActive,
		Objectives: []quest.Objective{{ID: "o1", Op: quest.OpBuildRooms, TargetCount: 1, CurrentCount: 1, Complete: true}},
		Rewards:    []quest.Reward{{Kind: quest.RewardCaps, Amount: 25}},
	}))

	w := f.do(t, "POST", "/api/quests/q1/complete", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res quest.CompletionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.QuestCompleted)
	assert.Equal(t, 25, res.Granted.Caps)

	// Claiming again maps NO_CHANGE to 409.
	w = f.do(t, "POST", "/api/quests/q1/complete", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouteIndexListsRegisteredRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/api/routes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var routes []RouteDoc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &routes))
	assert.NotEmpty(t, routes)
}
