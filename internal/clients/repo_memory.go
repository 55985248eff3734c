package clients

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Client
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Client),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Upsert(ctx context.Context, client Client) (Client, error) {
	if err := ctx.Err(); err != nil {
		return Client{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if id, ok := r.byEmail[client.Email]; ok {
		existing := r.byID[id]
		existing.FirstName = coalesce(client.FirstName, existing.FirstName)
		existing.BusinessName = coalesce(client.BusinessName, existing.BusinessName)
		existing.Website = coalesce(client.Website, existing.Website)
		existing.UpdatedAt = now
		r.byID[id] = existing
		return existing, nil
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	r.byID[client.ID] = client
	r.byEmail[client.Email] = client.ID
	return client, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Client, error) {
	if err := ctx.Err(); err != nil {
		return Client{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.byID[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return client, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Client, error) {
	if err := ctx.Err(); err != nil {
		return Client{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return Client{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func coalesce(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
