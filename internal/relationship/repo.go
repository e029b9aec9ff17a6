package relationship

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Relationship, bool, error)
	// GetPair looks up the canonical row for two dwellers in either order.
	GetPair(ctx context.Context, a, b string) (Relationship, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Relationship, error)
	ListForDweller(ctx context.Context, dwellerID string) ([]Relationship, error)
	Create(ctx context.Context, r Relationship) error
	Update(ctx context.Context, r Relationship) (Relationship, error)
	Delete(ctx context.Context, id string) error
}
