package dweller

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Dweller, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Dweller, error)
	// ListDead returns every dead, not-yet-permanent dweller across vaults.
	// Used by the permanent-death sweep.
	ListDead(ctx context.Context) ([]Dweller, error)
	// CountAlive counts living dwellers in a vault, for population caps.
	CountAlive(ctx context.Context, vaultID string) (int, error)
	Create(ctx context.Context, d Dweller) error
	Update(ctx context.Context, d Dweller) (Dweller, error)
}
