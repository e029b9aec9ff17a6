package exploration

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Exploration
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Exploration{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Exploration, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.m[id]
	return e, ok, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Exploration, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Exploration{}
	for _, e := range r.m {
		if e.VaultID == vaultID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ActiveForDweller(ctx context.Context, dwellerID string) (Exploration, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.m {
		if e.DwellerID == dwellerID && e.Status == StatusActive {
			return e, true, nil
		}
	}
	return Exploration{}, false, nil
}

func (r *MemoryRepo) Create(ctx context.Context, e Exploration) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[e.ID] = e
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, e Exploration) (Exploration, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[e.ID] = e
	return e, nil
}
