package packs

import (
	"context"
	"sync"

	"clarity-backend/internal/diagnostic/deepdive"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	packs map[string]Pack
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{packs: make(map[string]Pack)}
}

func (r *MemoryRepo) Get(ctx context.Context, clientID string) (Pack, error) {
	if err := ctx.Err(); err != nil {
		return Pack{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packs[clientID]
	if !ok {
		return Pack{}, ErrNotFound
	}
	p.Questions = append([]deepdive.Question(nil), p.Questions...)
	return p, nil
}

func (r *MemoryRepo) Save(ctx context.Context, p Pack) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Questions = append([]deepdive.Question(nil), p.Questions...)
	r.packs[p.ClientID] = p
	return nil
}
