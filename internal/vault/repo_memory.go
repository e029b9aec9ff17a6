package vault

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Vault
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Vault{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Vault, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.m[id]
	return v, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Vault, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Vault, 0, len(r.m))
	for _, v := range r.m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, v Vault) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[v.ID] = v
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, v Vault) (Vault, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[v.ID] = v
	return v, nil
}
