package gamestate

import "context"

type Repository interface {
	Get(ctx context.Context, vaultID string) (GameState, bool, error)
	List(ctx context.Context) ([]GameState, error)
	Create(ctx context.Context, g GameState) error
	Update(ctx context.Context, g GameState) (GameState, error)
}
