package training

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Training
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Training{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Training, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.m[id]
	return t, ok, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Training, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Training{}
	for _, t := range r.m {
		if t.VaultID == vaultID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ActiveForDweller(ctx context.Context, dwellerID string) (Training, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.m {
		if t.DwellerID == dwellerID && t.Status == StatusActive {
			return t, true, nil
		}
	}
	return Training{}, false, nil
}

func (r *MemoryRepo) Create(ctx context.Context, t Training) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[t.ID] = t
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, t Training) (Training, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[t.ID] = t
	return t, nil
}
