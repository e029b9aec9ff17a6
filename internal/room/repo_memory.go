package room

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Room
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Room{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Room, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.m[id]
	return rm, ok, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Room, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Room{}
	for _, rm := range r.m {
		if rm.VaultID == vaultID {
			out = append(out, rm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, rm Room) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[rm.ID] = rm
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, rm Room) (Room, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[rm.ID] = rm
	return rm, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[id]; !ok {
		return false, nil
	}
	delete(r.m, id)
	return true, nil
}
