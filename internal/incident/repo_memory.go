package incident

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Incident
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Incident{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Incident, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	inc, ok := r.m[id]
	return inc, ok, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Incident, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Incident{}
	for _, inc := range r.m {
		if inc.VaultID == vaultID {
			out = append(out, inc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ListLive(ctx context.Context, vaultID string) ([]Incident, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Incident{}
	for _, inc := range r.m {
		if inc.VaultID == vaultID && inc.Live() {
			out = append(out, inc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, inc Incident) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[inc.ID] = inc
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, inc Incident) (Incident, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[inc.ID] = inc
	return inc, nil
}
