// Package notify fans game events out to listeners: the log, the websocket
// hub, tests.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// EventType names something the player should hear about.
type EventType string

const (
	EventLevelUp             EventType = "level_up"
	EventTrainingComplete    EventType = "training_complete"
	EventBabyBorn            EventType = "baby_born"
	EventExplorationComplete EventType = "exploration_complete"
	EventIncidentSpawned     EventType = "incident_spawned"
	EventIncidentResolved    EventType = "incident_resolved"
	EventDwellerDied         EventType = "dweller_died"
	EventQuestCompleted      EventType = "quest_completed"
	EventChainCompleted      EventType = "chain_completed"
)

// Event is one notification payload.
type Event struct {
	Type    EventType      `json:"type"`
	VaultID string         `json:"vault_id"`
	At      time.Time      `json:"at"`
	Data    map[string]any `json:"data,omitempty"`
}

// Notifier receives events. Implementations must not block the tick.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// LogNotifier writes every event to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, e Event) {
	_ = ctx
	l := n.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("event", "type", string(e.Type), "vault_id", e.VaultID, "data", e.Data)
}

// Multi fans one event out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		n.Notify(ctx, e)
	}
}

// Null drops everything. Handy in tests.
type Null struct{}

func (Null) Notify(context.Context, Event) {}
