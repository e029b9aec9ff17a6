package dweller

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Dweller
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Dweller{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Dweller, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.m[id]
	return d, ok, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Dweller, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Dweller{}
	for _, d := range r.m {
		if d.VaultID == vaultID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ListDead(ctx context.Context) ([]Dweller, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Dweller{}
	for _, d := range r.m {
		if d.IsDead && !d.IsPermanentlyDead {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) CountAlive(ctx context.Context, vaultID string) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, d := range r.m {
		if d.VaultID == vaultID && !d.IsDead {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) Create(ctx context.Context, d Dweller) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[d.ID] = d
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, d Dweller) (Dweller, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[d.ID] = d
	return d, nil
}
