package relationship

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]Relationship
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]Relationship{}}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Relationship, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	rel, ok := r.m[id]
	return rel, ok, nil
}

func (r *MemoryRepo) GetPair(ctx context.Context, a, b string) (Relationship, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, b = PairKey(a, b)
	for _, rel := range r.m {
		if rel.DwellerAID == a && rel.DwellerBID == b {
			return rel, true, nil
		}
	}
	return Relationship{}, false, nil
}

func (r *MemoryRepo) ListByVault(ctx context.Context, vaultID string) ([]Relationship, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Relationship{}
	for _, rel := range r.m {
		if rel.VaultID == vaultID {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ListForDweller(ctx context.Context, dwellerID string) ([]Relationship, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Relationship{}
	for _, rel := range r.m {
		if rel.Involves(dwellerID) {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, rel Relationship) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[rel.ID] = rel
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, rel Relationship) (Relationship, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[rel.ID] = rel
	return rel, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}
