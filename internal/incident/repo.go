package incident

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Incident, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Incident, error)
	// ListLive returns the vault's unresolved incidents.
	ListLive(ctx context.Context, vaultID string) ([]Incident, error)
	Create(ctx context.Context, i Incident) error
	Update(ctx context.Context, i Incident) (Incident, error)
}
