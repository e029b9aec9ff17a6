package exploration

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Exploration, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Exploration, error)
	// ActiveForDweller returns the dweller's ongoing trip, if any.
	ActiveForDweller(ctx context.Context, dwellerID string) (Exploration, bool, error)
	Create(ctx context.Context, e Exploration) error
	Update(ctx context.Context, e Exploration) (Exploration, error)
}
