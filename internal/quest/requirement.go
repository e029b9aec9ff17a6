package quest

import (
	"context"
	"fmt"
	"log/slog"

	"overseer/internal/dweller"
	"overseer/internal/room"
	"overseer/internal/vault"
)

// RequirementKind names a prerequisite check.
type RequirementKind string

const (
	ReqQuestComplete RequirementKind = "quest_complete"
	ReqPopulation    RequirementKind = "population"
	ReqCaps          RequirementKind = "caps"
	ReqDwellerLevel  RequirementKind = "dweller_level"
	ReqRoomBuilt     RequirementKind = "room_built"
	ReqItemInStorage RequirementKind = "item_in_storage"
)

// Requirement is a typed prerequisite record. Exactly the fields for its
// kind are set; nothing is parsed out of display text. Optional requirements
// never block activation, an unmet one is only logged.
type Requirement struct {
	Kind     RequirementKind `json:"kind"`
	Optional bool            `json:"optional,omitempty"`

	QuestID string `json:"quest_id,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Room    string `json:"room,omitempty"` // room category for room_built
	Item    string `json:"item,omitempty"` // item name for item_in_storage
}

// PrerequisiteService checks quest requirements against live game state.
type PrerequisiteService struct {
	Quests   Repository
	Vaults   vault.Repository
	Dwellers dweller.Repository
	Rooms    room.Repository
	Logger   *slog.Logger
}

func (s *PrerequisiteService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Check evaluates every requirement. It never short-circuits: the caller
// gets the full list of unmet reasons in one pass. Unmet optional
// requirements are logged and skipped.
func (s *PrerequisiteService) Check(ctx context.Context, q Quest) (bool, []string, error) {
	reasons := []string{}
	for _, req := range q.Prerequisites {
		reason, err := s.check(ctx, q.VaultID, req)
		if err != nil {
			return false, reasons, err
		}
		if reason == "" {
			continue
		}
		if req.Optional {
			s.log().Info("optional prerequisite unmet",
				"quest_id", q.ID, "kind", string(req.Kind), "reason", reason)
			continue
		}
		reasons = append(reasons, reason)
	}
	return len(reasons) == 0, reasons, nil
}

func (s *PrerequisiteService) check(ctx context.Context, vaultID string, req Requirement) (string, error) {
	switch req.Kind {
	case ReqQuestComplete:
		dep, ok, err := s.Quests.GetQuest(ctx, req.QuestID)
		if err != nil {
			return "", err
		}
		if !ok {
			return fmt.Sprintf("required quest %s does not exist", req.QuestID), nil
		}
		if dep.Status != StatusComplete {
			return fmt.Sprintf("quest %q must be completed first", dep.Title), nil
		}
	case ReqPopulation:
		pop, err := s.Dwellers.CountAlive(ctx, vaultID)
		if err != nil {
			return "", err
		}
		if pop < req.Amount {
			return fmt.Sprintf("requires %d dwellers, vault has %d", req.Amount, pop), nil
		}
	case ReqCaps:
		v, ok, err := s.Vaults.Get(ctx, vaultID)
		if err != nil {
			return "", err
		}
		if !ok || v.Caps < req.Amount {
			return fmt.Sprintf("requires %d caps", req.Amount), nil
		}
	case ReqDwellerLevel:
		ds, err := s.Dwellers.ListByVault(ctx, vaultID)
		if err != nil {
			return "", err
		}
		for _, d := range ds {
			if !d.IsDead && d.Level >= req.Amount {
				return "", nil
			}
		}
		return fmt.Sprintf("requires a dweller of level %d", req.Amount), nil
	case ReqRoomBuilt:
		rs, err := s.Rooms.ListByVault(ctx, vaultID)
		if err != nil {
			return "", err
		}
		for _, rm := range rs {
			if string(rm.Category) == req.Room {
				return "", nil
			}
		}
		return fmt.Sprintf("requires a %s room", req.Room), nil
	case ReqItemInStorage:
		v, ok, err := s.Vaults.Get(ctx, vaultID)
		if err != nil {
			return "", err
		}
		if !ok || !v.HasItem(req.Item) {
			return fmt.Sprintf("requires a %s in storage", req.Item), nil
		}
	default:
		return fmt.Sprintf("unknown requirement kind %q", req.Kind), nil
	}
	return "", nil
}
