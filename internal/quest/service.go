package quest

import (
	"context"
	"log/slog"
	"time"

	"overseer/internal/gameerr"
	"overseer/internal/notify"
)

// CompletionResult describes how far a progress event cascaded.
type CompletionResult struct {
	Quest           *Quest  `json:"quest,omitempty"`
	QuestCompleted  bool    `json:"quest_completed"`
	Granted         Granted `json:"granted"`
	Chain           *Chain  `json:"chain,omitempty"`
	ChainCompleted  bool    `json:"chain_completed"`
	NextQuestActive *Quest  `json:"next_quest_active,omitempty"`
}

// Service activates quests and runs the completion cascade: objective to
// quest to chain, each a one-way latch.
type Service struct {
	Quests        Repository
	Prerequisites *PrerequisiteService
	Rewards       *RewardService
	Now           func() time.Time
	Notifier      notify.Notifier
	Logger        *slog.Logger
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) notify(ctx context.Context, ev notify.Event) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, ev)
}

// Activate moves a locked quest to active once its prerequisites hold.
// Unmet prerequisites come back as the full list of reasons.
func (s *Service) Activate(ctx context.Context, questID string) (Quest, []string, error) {
	q, ok, err := s.Quests.GetQuest(ctx, questID)
	if err != nil {
		return Quest{}, nil, err
	}
	if !ok {
		return Quest{}, nil, gameerr.NotFoundf("quest %s not found", questID)
	}
	if q.Status != StatusLocked {
		return Quest{}, nil, gameerr.NoChangef("quest %s is already %s", q.ID, q.Status)
	}

	met, reasons, err := s.Prerequisites.Check(ctx, q)
	if err != nil {
		return Quest{}, nil, err
	}
	if !met {
		return q, reasons, gameerr.Validationf("quest %q prerequisites not met", q.Title)
	}

	now := s.now()
	q.Status = StatusActive
	q.ActivatedAt = &now
	q, err = s.Quests.UpdateQuest(ctx, q)
	return q, nil, err
}

// Complete claims an active quest whose objectives have all latched and
// runs the completion cascade. Claiming twice is a no-op conflict.
func (s *Service) Complete(ctx context.Context, questID string) (CompletionResult, error) {
	q, ok, err := s.Quests.GetQuest(ctx, questID)
	if err != nil {
		return CompletionResult{}, err
	}
	if !ok {
		return CompletionResult{}, gameerr.NotFoundf("quest %s not found", questID)
	}
	if q.Status == StatusComplete {
		return CompletionResult{}, gameerr.NoChangef("quest %s is already complete", q.ID)
	}
	if q.Status != StatusActive {
		return CompletionResult{}, gameerr.Validationf("quest %q is not active", q.Title)
	}
	if !q.AllObjectivesComplete() {
		return CompletionResult{}, gameerr.Validationf("quest %q has unfinished objectives", q.Title)
	}
	return s.cascade(ctx, q, s.now())
}

// RecordProgress feeds a typed event into every active quest of the vault
// and cascades any completions it causes.
func (s *Service) RecordProgress(ctx context.Context, vaultID string, op ObjectiveOp, n int) ([]CompletionResult, error) {
	if n <= 0 {
		return nil, nil
	}
	qs, err := s.Quests.ListQuestsByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := []CompletionResult{}
	for _, q := range qs {
		if q.Status != StatusActive {
			continue
		}
		touched := false
		for i := range q.Objectives {
			if q.Objectives[i].Op != op {
				continue
			}
			if q.Objectives[i].Record(n, now) || !q.Objectives[i].Complete {
				touched = true
			}
		}
		if !touched {
			continue
		}
		res, err := s.cascade(ctx, q, now)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// cascade persists the quest and walks completion upward.
func (s *Service) cascade(ctx context.Context, q Quest, now time.Time) (CompletionResult, error) {
	res := CompletionResult{}

	if q.AllObjectivesComplete() && q.MarkComplete(now) {
		res.QuestCompleted = true
		res.Granted = s.Rewards.Grant(ctx, q)
		s.log().Info("quest completed", "quest_id", q.ID, "title", q.Title)
		s.notify(ctx, notify.Event{Type: notify.EventQuestCompleted, VaultID: q.VaultID, At: now,
			Data: map[string]any{"quest_id": q.ID, "title": q.Title}})
	}
	q, err := s.Quests.UpdateQuest(ctx, q)
	if err != nil {
		return res, err
	}
	res.Quest = &q
	if !res.QuestCompleted || q.ChainID == "" {
		return res, nil
	}

	c, ok, err := s.Quests.GetChain(ctx, q.ChainID)
	if err != nil || !ok {
		return res, err
	}
	res.Chain = &c

	allDone := true
	var next *Quest
	for _, id := range c.QuestIDs {
		link, ok, err := s.Quests.GetQuest(ctx, id)
		if err != nil {
			return res, err
		}
		if !ok {
			continue
		}
		if link.Status != StatusComplete {
			allDone = false
			if next == nil && link.Status == StatusLocked {
				next = &link
			}
		}
	}

	if allDone {
		if c.MarkComplete(now) {
			res.ChainCompleted = true
			s.log().Info("quest chain completed", "chain_id", c.ID, "title", c.Title)
			s.notify(ctx, notify.Event{Type: notify.EventChainCompleted, VaultID: c.VaultID, At: now,
				Data: map[string]any{"chain_id": c.ID, "title": c.Title}})
		}
		c, err = s.Quests.UpdateChain(ctx, c)
		if err != nil {
			return res, err
		}
		res.Chain = &c
		return res, nil
	}

	// Unlock the next link when its prerequisites allow.
	if next != nil {
		activated, _, err := s.Activate(ctx, next.ID)
		if err == nil {
			res.NextQuestActive = &activated
		} else if !gameerr.IsValidation(err) && !gameerr.IsNoChange(err) {
			return res, err
		}
	}
	return res, nil
}
