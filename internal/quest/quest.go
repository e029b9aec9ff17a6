// Package quest implements objectives, quests and quest chains, with
// structured prerequisites and rewards. Completion is a one-way latch at
// every level: once marked complete, nothing unmarks it.
package quest

import "time"

type Status string

const (
	StatusLocked   Status = "LOCKED"
	StatusActive   Status = "ACTIVE"
	StatusComplete Status = "COMPLETE"
)

// ObjectiveOp names what an objective counts. Progress arrives as typed
// events from the engine, never parsed out of strings.
type ObjectiveOp string

const (
	OpCollectCaps      ObjectiveOp = "collect_caps"
	OpResolveIncidents ObjectiveOp = "resolve_incidents"
	OpTrainStats       ObjectiveOp = "train_stats"
	OpReachPopulation  ObjectiveOp = "reach_population"
	OpCompleteTrips    ObjectiveOp = "complete_explorations"
	OpDeliverBabies    ObjectiveOp = "deliver_babies"
	OpBuildRooms       ObjectiveOp = "build_rooms"
	OpReachLevel       ObjectiveOp = "reach_dweller_level"
)

// Objective is one countable goal inside a quest.
type Objective struct {
	ID          string      `json:"id"`
	Op          ObjectiveOp `json:"op"`
	TargetCount int         `json:"target_count"`

	CurrentCount int        `json:"current_count"`
	Complete     bool       `json:"complete"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Record adds progress and latches completion. Returns true the one time
// the objective crosses the line.
func (o *Objective) Record(n int, now time.Time) bool {
	if o.Complete || n <= 0 {
		return false
	}
	o.CurrentCount += n
	if o.CurrentCount < o.TargetCount {
		return false
	}
	o.CurrentCount = o.TargetCount
	o.Complete = true
	o.CompletedAt = &now
	return true
}

// Quest groups objectives under one set of prerequisites and rewards.
type Quest struct {
	ID          string `json:"id"`
	VaultID     string `json:"vault_id"`
	ChainID     string `json:"chain_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Objectives    []Objective   `json:"objectives"`
	Prerequisites []Requirement `json:"prerequisites,omitempty"`
	Rewards       []Reward      `json:"rewards,omitempty"`

	Status      Status     `json:"status"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AllObjectivesComplete reports whether every objective has latched.
func (q *Quest) AllObjectivesComplete() bool {
	for _, o := range q.Objectives {
		if !o.Complete {
			return false
		}
	}
	return len(q.Objectives) > 0
}

// Chain is an ordered sequence of quests completed front to back.
type Chain struct {
	ID      string `json:"id"`
	VaultID string `json:"vault_id"`
	Title   string `json:"title"`

	QuestIDs []string `json:"quest_ids"`

	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
