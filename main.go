package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"overseer/internal/breeding"
	"overseer/internal/config"
	"overseer/internal/dweller"
	"overseer/internal/exploration"
	"overseer/internal/game"
	"overseer/internal/gamestate"
	"overseer/internal/incident"
	"overseer/internal/notify"
	"overseer/internal/pregnancy"
	"overseer/internal/quest"
	"overseer/internal/relationship"
	"overseer/internal/resource"
	"overseer/internal/room"
	"overseer/internal/sched"
	"overseer/internal/server"
	"overseer/internal/storage"
	"overseer/internal/training"
	"overseer/internal/vault"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	settings, err := config.ParseSettings()
	if err != nil {
		logger.Error("settings", "error", err)
		os.Exit(1)
	}

	balance := config.Default()
	if _, statErr := os.Stat(settings.GamePath); statErr == nil {
		balance, err = config.Load(settings.GamePath)
		if err != nil {
			logger.Error("balance config", "error", err)
			os.Exit(1)
		}
	}

	repos, closeDB, err := buildRepos(settings, logger)
	if err != nil {
		logger.Error("storage", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	hub := notify.NewHub(logger)
	notifier := notify.Multi{&notify.LogNotifier{Logger: logger}, hub}

	app := buildApp(repos, balance, &settings, notifier, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := sched.New(logger)
	scheduler.Add(sched.Job{
		Name:     "game_tick",
		Interval: settings.TickInterval,
		Budget:   settings.TickBudget,
		Run: func(jobCtx context.Context) {
			app.Engine.TickAll(jobCtx)
		},
	})
	scheduler.Add(sched.Job{
		Name:     "check_permanent_deaths",
		Interval: settings.SweepInterval,
		Budget:   settings.SweepBudget,
		Run: func(jobCtx context.Context) {
			n, err := app.DeathService.SweepPermanentDeaths(jobCtx)
			if err != nil {
				logger.Error("permanent-death sweep", "error", err)
				return
			}
			if n > 0 {
				logger.Info("permanent-death sweep", "marked", n)
			}
		},
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, app)
	mux.Handle("GET /ws", hub)

	srv := &http.Server{Addr: ":" + settings.Port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("overseer listening", "addr", srv.Addr, "storage", settings.Storage)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "error", err)
		os.Exit(1)
	}
}

// repos bundles every repository behind its interface so memory and sqlite
// wire identically.
type repos struct {
	Vaults        vault.Repository
	Rooms         room.Repository
	Dwellers      dweller.Repository
	States        gamestate.Repository
	Trainings     training.Repository
	Pregnancies   pregnancy.Repository
	Explorations  exploration.Repository
	Incidents     incident.Repository
	Relationships relationship.Repository
	Quests        quest.Repository
}

func buildRepos(settings config.Settings, logger *slog.Logger) (repos, func(), error) {
	if settings.Storage == "memory" {
		return repos{
			Vaults:        vault.NewMemoryRepo(),
			Rooms:         room.NewMemoryRepo(),
			Dwellers:      dweller.NewMemoryRepo(),
			States:        gamestate.NewMemoryRepo(),
			Trainings:     training.NewMemoryRepo(),
			Pregnancies:   pregnancy.NewMemoryRepo(),
			Explorations:  exploration.NewMemoryRepo(),
			Incidents:     incident.NewMemoryRepo(),
			Relationships: relationship.NewMemoryRepo(),
			Quests:        quest.NewMemoryRepo(),
		}, func() {}, nil
	}

	if err := os.MkdirAll(settings.DataDir, 0o755); err != nil {
		return repos{}, nil, err
	}
	db, err := storage.Open(filepath.Join(settings.DataDir, "overseer.db"))
	if err != nil {
		return repos{}, nil, err
	}
	logger.Info("sqlite ready", "dir", settings.DataDir)
	return repos{
		Vaults:        &storage.VaultRepo{DB: db},
		Rooms:         &storage.RoomRepo{DB: db},
		Dwellers:      &storage.DwellerRepo{DB: db},
		States:        &storage.GameStateRepo{DB: db},
		Trainings:     &storage.TrainingRepo{DB: db},
		Pregnancies:   &storage.PregnancyRepo{DB: db},
		Explorations:  &storage.ExplorationRepo{DB: db},
		Incidents:     &storage.IncidentRepo{DB: db},
		Relationships: &storage.RelationshipRepo{DB: db},
		Quests:        &storage.QuestRepo{DB: db},
	}, func() { _ = db.Close() }, nil
}

func buildApp(r repos, balance *config.Game, settings *config.Settings, notifier notify.Notifier, logger *slog.Logger) *server.App {
	states := &gamestate.Store{Repo: r.States}
	leveling := &dweller.LevelingService{Config: balance}
	deaths := &dweller.DeathService{Dwellers: r.Dwellers, Vaults: r.Vaults, Config: balance, Logger: logger}

	trainings := &training.Service{
		Trainings: r.Trainings, Dwellers: r.Dwellers, Rooms: r.Rooms, Config: balance,
	}
	explorations := &exploration.Service{
		Explorations: r.Explorations, Dwellers: r.Dwellers, Vaults: r.Vaults,
		Leveling: leveling, Config: balance, Notifier: notifier,
	}
	relationships := &relationship.Service{
		Relationships: r.Relationships, Dwellers: r.Dwellers, Config: balance,
	}
	breedings := &breeding.Service{
		Pregnancies: r.Pregnancies, Relationships: r.Relationships,
		Dwellers: r.Dwellers, Rooms: r.Rooms, Vaults: r.Vaults, Config: balance,
	}
	incidents := &incident.Engine{
		Incidents: r.Incidents, Rooms: r.Rooms, Dwellers: r.Dwellers,
		Config: balance, Notifier: notifier, Logger: logger,
	}
	resources := &resource.Engine{
		Vaults: r.Vaults, Rooms: r.Rooms, Dwellers: r.Dwellers, Config: balance,
	}
	quests := &quest.Service{
		Quests: r.Quests,
		Prerequisites: &quest.PrerequisiteService{
			Quests: r.Quests, Vaults: r.Vaults, Dwellers: r.Dwellers,
			Rooms: r.Rooms, Logger: logger,
		},
		Rewards: &quest.RewardService{
			Vaults: r.Vaults, Dwellers: r.Dwellers, Leveling: leveling, Logger: logger,
		},
		Notifier: notifier,
		Logger:   logger,
	}

	engine := &game.Engine{
		Vaults:        r.Vaults,
		Dwellers:      r.Dwellers,
		States:        states,
		Resources:     resources,
		Trainings:     trainings,
		Explorations:  explorations,
		Breeding:      breedings,
		Relationships: relationships,
		Incidents:     incidents,
		Deaths:        deaths,
		Leveling:      leveling,
		Quests:        quests,
		Config:        balance,
		Settings:      settings,
		Clock:         game.RealClock{},
		Notifier:      notifier,
		Logger:        logger,
	}

	return &server.App{
		Engine:             engine,
		Vaults:             r.Vaults,
		Rooms:              r.Rooms,
		Dwellers:           r.Dwellers,
		Trainings:          r.Trainings,
		Pregnancies:        r.Pregnancies,
		Explorations:       r.Explorations,
		Incidents:          r.Incidents,
		Relationships:      r.Relationships,
		TrainingService:    trainings,
		ExplorationService: explorations,
		BreedingService:    breedings,
		RelationshipSvc:    relationships,
		IncidentEngine:     incidents,
		DeathService:       deaths,
		QuestService:       quests,
		States:             states,
		Config:             balance,
	}
}
