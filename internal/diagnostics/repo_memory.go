package diagnostics

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	results []Result
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, res Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Payload = append([]byte(nil), res.Payload...)
	r.results = append(r.results, res)
	return nil
}

func (r *MemoryRepo) Latest(ctx context.Context, clientID string, kind Kind) (Result, error) {
	list, err := r.ListByClient(ctx, clientID)
	if err != nil {
		return Result{}, err
	}
	for _, res := range list {
		if res.Kind == kind {
			return res, nil
		}
	}
	return Result{}, ErrNotFound
}

// ListByClient returns results newest first; equal timestamps keep the later
// insert first.
func (r *MemoryRepo) ListByClient(ctx context.Context, clientID string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	type indexed struct {
		res Result
		seq int
	}
	var matched []indexed
	for i, res := range r.results {
		if res.ClientID == clientID {
			matched = append(matched, indexed{res: res, seq: i})
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.res.CreatedAt.Equal(b.res.CreatedAt) {
			return a.res.CreatedAt.After(b.res.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]Result, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.res)
	}
	return out, nil
}
