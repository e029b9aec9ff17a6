package pregnancy

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Pregnancy, bool, error)
	ListByVault(ctx context.Context, vaultID string) ([]Pregnancy, error)
	// ActiveForMother returns the mother's ongoing pregnancy, if any.
	ActiveForMother(ctx context.Context, motherID string) (Pregnancy, bool, error)
	Create(ctx context.Context, p Pregnancy) error
	Update(ctx context.Context, p Pregnancy) (Pregnancy, error)
}
