package room

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Room, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Room, error)
	Create(ctx context.Context, r Room) error
	Update(ctx context.Context, r Room) (Room, error)
	Delete(ctx context.Context, id string) (bool, error)
}
