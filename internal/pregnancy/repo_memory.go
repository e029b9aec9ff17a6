package pregnancy

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Pregnancy
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Pregnancy{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Pregnancy, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.m[id]
	return p, ok, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Pregnancy, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Pregnancy{}
	for _, p := range r.m {
		if p.VaultID == vaultID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ActiveForMother(ctx context.Context, motherID string) (Pregnancy, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.m {
		if p.MotherID == motherID && p.Status == StatusPregnant {
			return p, true, nil
		}
	}
	return Pregnancy{}, false, nil
}

func (r *MemoryRepo) Create(ctx context.Context, p Pregnancy) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[p.ID] = p
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Pregnancy) (Pregnancy, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[p.ID] = p
	return p, nil
}
