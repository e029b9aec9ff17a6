package training

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Training, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Training, error)
	// ActiveForDweller returns the dweller's active training, if any.
	ActiveForDweller(ctx context.Context, dwellerID string) (Training, bool, error)
	Create(ctx context.Context, t Training) error
	Update(ctx context.Context, t Training) (Training, error)
}
