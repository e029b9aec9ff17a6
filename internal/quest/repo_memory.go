package quest

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	quests map[string]Quest
	chains map[string]Chain
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		quests: map[string]Quest{},
		chains: map[string]Chain{},
	}
}

func (r *MemoryRepo) GetQuest(ctx context.Context, id string) (Quest, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.quests[id]
	return q, ok, nil
}

func (r *MemoryRepo) ListQuestsByVault(ctx context.Context, vaultID string) ([]Quest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Quest{}
	for _, q := range r.quests {
		if q.VaultID == vaultID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) CreateQuest(ctx context.Context, q Quest) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quests[q.ID] = q
	return nil
}

func (r *MemoryRepo) UpdateQuest(ctx context.Context, q Quest) (Quest, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quests[q.ID] = q
	return q, nil
}

func (r *MemoryRepo) GetChain(ctx context.Context, id string) (Chain, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chains[id]
	return c, ok, nil
}

func (r *MemoryRepo) ListChainsByVault(ctx context.Context, vaultID string) ([]Chain, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Chain{}
	for _, c := range r.chains {
		if c.VaultID == vaultID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) CreateChain(ctx context.Context, c Chain) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chains[c.ID] = c
	return nil
}

func (r *MemoryRepo) UpdateChain(ctx context.Context, c Chain) (Chain, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chains[c.ID] = c
	return c, nil
}
