package gamestate

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]GameState
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]GameState{}}
}

func (r *MemoryRepo) Get(ctx context.Context, vaultID string) (GameState, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.m[vaultID]
	return g, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]GameState, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GameState, 0, len(r.m))
	for _, g := range r.m {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VaultID < out[j].VaultID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, g GameState) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[g.VaultID] = g
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, g GameState) (GameState, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[g.VaultID] = g
	return g, nil
}
