package quest

import (
	"context"

	"github.com/google/uuid"
)

// SeedStarterChain installs the opening quest line for a new vault. The
// first quest starts active; the rest unlock as the chain advances.
func SeedStarterChain(ctx context.Context, repo Repository, vaultID string) (Chain, error) {
	chainID := uuid.NewString()

	quests := []Quest{
		{
			ID:      uuid.NewString(),
			VaultID: vaultID,
			ChainID: chainID,
			Title:   "Open for Business",
			Description: "Get the vault on its feet: recruit dwellers and build out " +
				"the first production rooms.",
			Objectives: []Objective{
				{ID: uuid.NewString(), Op: OpReachPopulation, TargetCount: 5},
				{ID: uuid.NewString(), Op: OpBuildRooms, TargetCount: 3},
			},
			Rewards: []Reward{
				{Kind: RewardCaps, Amount: 200},
			},
			Status: StatusActive,
		},
		{
			ID:          uuid.NewString(),
			VaultID:     vaultID,
			ChainID:     chainID,
			Title:       "Iron Discipline",
			Description: "Put the training rooms to work.",
			Objectives: []Objective{
				{ID: uuid.NewString(), Op: OpTrainStats, TargetCount: 3},
			},
			Prerequisites: []Requirement{},
			Rewards: []Reward{
				{Kind: RewardCaps, Amount: 300},
				{Kind: RewardXP, Amount: 350},
			},
			Status: StatusLocked,
		},
		{
			ID:          uuid.NewString(),
			VaultID:     vaultID,
			ChainID:     chainID,
			Title:       "Into the Wastes",
			Description: "Send explorers out and bring them home alive.",
			Objectives: []Objective{
				{ID: uuid.NewString(), Op: OpCompleteTrips, TargetCount: 2},
				{ID: uuid.NewString(), Op: OpResolveIncidents, TargetCount: 1},
			},
			Rewards: []Reward{
				{Kind: RewardCaps, Amount: 500},
				{Kind: RewardItem, Item: "vault suit schematic", Chance: 0.5},
			},
			Status: StatusLocked,
		},
	}

	// Each link requires the one before it.
	for i := 1; i < len(quests); i++ {
		quests[i].Prerequisites = append(quests[i].Prerequisites,
			Requirement{Kind: ReqQuestComplete, QuestID: quests[i-1].ID})
	}

	chain := Chain{
		ID:      chainID,
		VaultID: vaultID,
		Title:   "Overseer's Handbook",
		Status:  StatusActive,
	}
	for _, q := range quests {
		chain.QuestIDs = append(chain.QuestIDs, q.ID)
		if err := repo.CreateQuest(ctx, q); err != nil {
			return Chain{}, err
		}
	}
	if err := repo.CreateChain(ctx, chain); err != nil {
		return Chain{}, err
	}
	return chain, nil
}
