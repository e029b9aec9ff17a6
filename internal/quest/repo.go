package quest

import "context"

type Repository interface {
	GetQuest(ctx context.Context, id string) (Quest, bool, error)
	ListQuestsByVault(ctx context.Context, vaultID string) ([]Quest, error)
	CreateQuest(ctx context.Context, q Quest) error
	UpdateQuest(ctx context.Context, q Quest) (Quest, error)

	GetChain(ctx context.Context, id string) (Chain, bool, error)
	ListChainsByVault(ctx context.Context, vaultID string) ([]Chain, error)
	CreateChain(ctx context.Context, c Chain) error
	UpdateChain(ctx context.Context, c Chain) (Chain, error)
}
