// Package server exposes the REST surface over the engine. Handlers stay
// thin: decode, call a service, map the error code to a status.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"overseer/internal/breeding"
	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/exploration"
	"overseer/internal/game"
	"overseer/internal/gameerr"
	"overseer/internal/gamestate"
	"overseer/internal/incident"
	"overseer/internal/pregnancy"
	"overseer/internal/quest"
	"overseer/internal/relationship"
	"overseer/internal/room"
	"overseer/internal/training"
	"overseer/internal/vault"
)

// App holds everything the handlers depend on.
type App struct {
	Engine *game.Engine

	Vaults        vault.Repository
	Rooms         room.Repository
	Dwellers      dweller.Repository
	Trainings     training.Repository
	Pregnancies   pregnancy.Repository
	Explorations  exploration.Repository
	Incidents     incident.Repository
	Relationships relationship.Repository

	TrainingService    *training.Service
	ExplorationService *exploration.Service
	BreedingService    *breeding.Service
	RelationshipSvc    *relationship.Service
	IncidentEngine     *incident.Engine
	DeathService       *dweller.DeathService
	QuestService       *quest.Service
	States             *gamestate.Store

	Config *config.Game
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch gameerr.CodeOf(err) {
	case gameerr.CodeNotFound:
		status = http.StatusNotFound
	case gameerr.CodeConflict, gameerr.CodeNoChange:
		status = http.StatusConflict
	case gameerr.CodeValidation:
		status = http.StatusBadRequest
	case gameerr.CodeVaultOp:
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  string(gameerr.CodeOf(err)),
		"error": err.Error(),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, gameerr.Validationf("invalid json body"))
		return false
	}
	return true
}

// RegisterAPIRoutes wires every REST endpoint onto the mux.
func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/routes", "List API routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rr.List())
	})

	registerVaultRoutes(mux, rr, app)
	registerDwellerRoutes(mux, rr, app)
	registerActionRoutes(mux, rr, app)
	registerSocialRoutes(mux, rr, app)
	registerQuestRoutes(mux, rr, app)
}

func registerVaultRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/vaults", "List vaults", "", func(w http.ResponseWriter, r *http.Request) {
		vs, err := app.Vaults.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, vs)
	})

	Handle(mux, rr, "POST /api/vaults", "Create vault", `{"name":"Vault 111"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if !decode(w, r, &body) {
			return
		}
		if body.Name == "" {
			writeError(w, gameerr.Validationf("name is required"))
			return
		}
		v := vault.Vault{
			ID:            uuid.NewString(),
			Name:          body.Name,
			Caps:          500,
			Happiness:     50,
			Power:         50,
			PowerMax:      100,
			Food:          50,
			FoodMax:       100,
			Water:         50,
			WaterMax:      100,
			PopulationMax: 20,
		}
		if err := app.Vaults.Create(r.Context(), v); err != nil {
			writeError(w, err)
			return
		}
		door := room.Room{
			ID:       uuid.NewString(),
			VaultID:  v.ID,
			Name:     "Vault Door",
			Category: room.CategoryDoor,
			Tier:     1,
			Size:     1,
		}
		if err := door.Derive(app.Config); err != nil {
			writeError(w, err)
			return
		}
		if err := app.Rooms.Create(r.Context(), door); err != nil {
			writeError(w, err)
			return
		}
		if _, err := app.States.GetOrCreate(r.Context(), v.ID); err != nil {
			writeError(w, err)
			return
		}
		if _, err := quest.SeedStarterChain(r.Context(), app.QuestService.Quests, v.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, v)
	})

	Handle(mux, rr, "GET /api/vaults/{id}", "Get vault", "", func(w http.ResponseWriter, r *http.Request) {
		v, ok, err := app.Vaults.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, gameerr.NotFoundf("vault %s not found", r.PathValue("id")))
			return
		}
		writeJSON(w, v)
	})

	Handle(mux, rr, "GET /api/vaults/{id}/state", "Get game state", "", func(w http.ResponseWriter, r *http.Request) {
		g, err := app.States.GetOrCreate(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, g)
	})

	Handle(mux, rr, "POST /api/vaults/{id}/pause", "Pause simulation", "", func(w http.ResponseWriter, r *http.Request) {
		g, err := app.Engine.Pause(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, g)
	})

	Handle(mux, rr, "POST /api/vaults/{id}/resume", "Resume simulation", "", func(w http.ResponseWriter, r *http.Request) {
		g, err := app.Engine.Resume(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, g)
	})

	Handle(mux, rr, "POST /api/vaults/{id}/tick", "Run a manual tick", `{"speedup":2.0}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Speedup float64 `json:"speedup"`
		}
		if r.ContentLength > 0 && !decode(w, r, &body) {
			return
		}
		res, err := app.Engine.ManualTick(r.Context(), r.PathValue("id"), body.Speedup)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	})

	Handle(mux, rr, "GET /api/vaults/{id}/rooms", "List rooms", "", func(w http.ResponseWriter, r *http.Request) {
		rs, err := app.Rooms.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, rs)
	})

	Handle(mux, rr, "POST /api/vaults/{id}/rooms", "Build room",
		`{"name":"Power Plant","category":"production","ability":"power","size":1,"row":1,"col":0}`,
		func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name     string `json:"name"`
				Category string `json:"category"`
				Ability  string `json:"ability"`
				Size     int    `json:"size"`
				Row      int    `json:"row"`
				Col      int    `json:"col"`
			}
			if !decode(w, r, &body) {
				return
			}
			if body.Size < 1 {
				body.Size = 1
			}
			if body.Size > app.Config.Rooms.MaxSize {
				writeError(w, gameerr.Validationf("room size %d exceeds the maximum %d", body.Size, app.Config.Rooms.MaxSize))
				return
			}
			rm := room.Room{
				ID:       uuid.NewString(),
				VaultID:  r.PathValue("id"),
				Name:     body.Name,
				Category: room.Category(body.Category),
				Ability:  room.Ability(body.Ability),
				Tier:     1,
				Size:     body.Size,
				Row:      body.Row,
				Col:      body.Col,
			}
			if err := rm.Derive(app.Config); err != nil {
				writeError(w, err)
				return
			}
			if err := app.Rooms.Create(r.Context(), rm); err != nil {
				writeError(w, err)
				return
			}
			if _, err := app.QuestService.RecordProgress(r.Context(), rm.VaultID, quest.OpBuildRooms, 1); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, rm)
		})

	Handle(mux, rr, "POST /api/rooms/{id}/upgrade", "Upgrade room", "", func(w http.ResponseWriter, r *http.Request) {
		rm, ok, err := app.Rooms.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, gameerr.NotFoundf("room %s not found", r.PathValue("id")))
			return
		}
		if err := rm.Upgrade(app.Config); err != nil {
			writeError(w, err)
			return
		}
		rm, err = app.Rooms.Update(r.Context(), rm)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, rm)
	})
}

func registerDwellerRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/vaults/{id}/dwellers", "List dwellers", "", func(w http.ResponseWriter, r *http.Request) {
		ds, err := app.Dwellers.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ds)
	})

	Handle(mux, rr, "POST /api/vaults/{id}/recruit", "Recruit a wanderer", `{"name":"Nora"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if r.ContentLength > 0 && !decode(w, r, &body) {
			return
		}
		d, err := app.Engine.ManualRecruit(r.Context(), r.PathValue("id"), body.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := app.QuestService.RecordProgress(r.Context(), d.VaultID, quest.OpReachPopulation, 1); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, d)
	})

	Handle(mux, rr, "POST /api/dwellers/{id}/assign", "Assign dweller to room", `{"room_id":"..."}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RoomID string `json:"room_id"`
		}
		if !decode(w, r, &body) {
			return
		}
		d, ok, err := app.Dwellers.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, gameerr.NotFoundf("dweller %s not found", r.PathValue("id")))
			return
		}
		if d.IsDead {
			writeError(w, gameerr.VaultOpf("dweller %s is dead", d.Name))
			return
		}

		// Pull out of the old room first.
		if d.RoomID != nil {
			if old, ok, err := app.Rooms.Get(r.Context(), *d.RoomID); err == nil && ok {
				old.Unassign(d.ID)
				if _, err := app.Rooms.Update(r.Context(), old); err != nil {
					writeError(w, err)
					return
				}
			}
		}

		rm, ok, err := app.Rooms.Get(r.Context(), body.RoomID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, gameerr.NotFoundf("room %s not found", body.RoomID))
			return
		}
		if rm.VaultID != d.VaultID {
			writeError(w, gameerr.Validationf("room %s belongs to a different vault", rm.Name))
			return
		}
		if err := rm.Assign(d.ID); err != nil {
			writeError(w, err)
			return
		}
		if _, err := app.Rooms.Update(r.Context(), rm); err != nil {
			writeError(w, err)
			return
		}

		d.RoomID = &rm.ID
		d.Status = dweller.StatusWorking
		d, err = app.Dwellers.Update(r.Context(), d)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, d)
	})

	Handle(mux, rr, "POST /api/dwellers/{id}/revive", "Revive a dead dweller", "", func(w http.ResponseWriter, r *http.Request) {
		d, err := app.DeathService.Revive(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, d)
	})

	Handle(mux, rr, "GET /api/dwellers/{id}/revival-cost", "Quote revival cost", "", func(w http.ResponseWriter, r *http.Request) {
		d, ok, err := app.Dwellers.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, gameerr.NotFoundf("dweller %s not found", r.PathValue("id")))
			return
		}
		writeJSON(w, map[string]any{
			"dweller_id":           d.ID,
			"cost":                 app.DeathService.RevivalCost(d.Level),
			"days_until_permanent": app.DeathService.DaysUntilPermanent(d),
		})
	})
}

func registerActionRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/vaults/{id}/trainings", "List trainings", "", func(w http.ResponseWriter, r *http.Request) {
		ts, err := app.Trainings.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ts)
	})

	Handle(mux, rr, "POST /api/trainings", "Start training", `{"dweller_id":"...","room_id":"..."}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DwellerID string `json:"dweller_id"`
			RoomID    string `json:"room_id"`
		}
		if !decode(w, r, &body) {
			return
		}
		t, err := app.TrainingService.Start(r.Context(), body.DwellerID, body.RoomID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, t)
	})

	Handle(mux, rr, "POST /api/trainings/{id}/cancel", "Cancel training", "", func(w http.ResponseWriter, r *http.Request) {
		t, err := app.TrainingService.Cancel(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, t)
	})

	Handle(mux, rr, "GET /api/vaults/{id}/explorations", "List explorations", "", func(w http.ResponseWriter, r *http.Request) {
		es, err := app.Explorations.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, es)
	})

	Handle(mux, rr, "POST /api/explorations", "Send dweller exploring", `{"dweller_id":"...","hours":4}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DwellerID string `json:"dweller_id"`
			Hours     int    `json:"hours"`
		}
		if !decode(w, r, &body) {
			return
		}
		e, err := app.ExplorationService.Start(r.Context(), body.DwellerID, body.Hours)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e)
	})

	Handle(mux, rr, "POST /api/explorations/{id}/recall", "Recall an explorer", "", func(w http.ResponseWriter, r *http.Request) {
		e, err := app.ExplorationService.Recall(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e)
	})

	Handle(mux, rr, "GET /api/vaults/{id}/incidents", "List incidents", "", func(w http.ResponseWriter, r *http.Request) {
		is, err := app.Incidents.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, is)
	})

	Handle(mux, rr, "POST /api/incidents/{id}/resolve", "Resolve incident", `{"success":true}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Success bool `json:"success"`
		}
		if !decode(w, r, &body) {
			return
		}
		inc, err := app.IncidentEngine.Resolve(r.Context(), r.PathValue("id"), body.Success)
		if err != nil {
			writeError(w, err)
			return
		}
		if body.Success {
			if _, err := app.QuestService.RecordProgress(r.Context(), inc.VaultID, quest.OpResolveIncidents, 1); err != nil {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, inc)
	})
}

func registerSocialRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/vaults/{id}/relationships", "List relationships", "", func(w http.ResponseWriter, r *http.Request) {
		rels, err := app.Relationships.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, rels)
	})

	Handle(mux, rr, "POST /api/relationships/partners", "Make partners", `{"dweller_a_id":"...","dweller_b_id":"..."}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DwellerAID string `json:"dweller_a_id"`
			DwellerBID string `json:"dweller_b_id"`
		}
		if !decode(w, r, &body) {
			return
		}
		rel, err := app.RelationshipSvc.SetPartners(r.Context(), body.DwellerAID, body.DwellerBID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, rel)
	})

	Handle(mux, rr, "POST /api/relationships/breakup", "Break up a pair", `{"dweller_a_id":"...","dweller_b_id":"..."}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DwellerAID string `json:"dweller_a_id"`
			DwellerBID string `json:"dweller_b_id"`
		}
		if !decode(w, r, &body) {
			return
		}
		if err := app.RelationshipSvc.BreakUp(r.Context(), body.DwellerAID, body.DwellerBID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	})

	Handle(mux, rr, "GET /api/vaults/{id}/pregnancies", "List pregnancies", "", func(w http.ResponseWriter, r *http.Request) {
		ps, err := app.Pregnancies.ListByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ps)
	})

	Handle(mux, rr, "POST /api/breeding/conceive", "Conceive", `{"mother_id":"...","father_id":"..."}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MotherID string `json:"mother_id"`
			FatherID string `json:"father_id"`
		}
		if !decode(w, r, &body) {
			return
		}
		p, err := app.BreedingService.Conceive(r.Context(), body.MotherID, body.FatherID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, p)
	})

	Handle(mux, rr, "POST /api/pregnancies/{id}/deliver", "Deliver baby", "", func(w http.ResponseWriter, r *http.Request) {
		p, child, err := app.BreedingService.Deliver(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := app.QuestService.RecordProgress(r.Context(), p.VaultID, quest.OpDeliverBabies, 1); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"pregnancy": p, "child": child})
	})
}

func registerQuestRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/vaults/{id}/quests", "List quests", "", func(w http.ResponseWriter, r *http.Request) {
		qs, err := app.QuestService.Quests.ListQuestsByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, qs)
	})

	Handle(mux, rr, "GET /api/vaults/{id}/chains", "List quest chains", "", func(w http.ResponseWriter, r *http.Request) {
		cs, err := app.QuestService.Quests.ListChainsByVault(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, cs)
	})

	Handle(mux, rr, "POST /api/quests/{id}/complete", "Claim a finished quest", "", func(w http.ResponseWriter, r *http.Request) {
		res, err := app.QuestService.Complete(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	})

	Handle(mux, rr, "POST /api/quests/{id}/activate", "Activate quest", "", func(w http.ResponseWriter, r *http.Request) {
		q, reasons, err := app.QuestService.Activate(r.Context(), r.PathValue("id"))
		if err != nil {
			if len(reasons) > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"code":    string(gameerr.CodeValidation),
					"error":   err.Error(),
					"reasons": reasons,
				})
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, q)
	})
}
