package vault

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Vault, bool, error)
	List(ctx context.Context) ([]Vault, error)
	Create(ctx context.Context, v Vault) error
	Update(ctx context.Context, v Vault) (Vault, error)
}
