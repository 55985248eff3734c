package payments

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	payments []Payment
	events   map[string]struct{}
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{events: make(map[string]struct{})}
}

func (r *MemoryRepo) Create(ctx context.Context, p Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[p.StripeEventID]; ok {
		return ErrDuplicateEvent
	}
	r.events[p.StripeEventID] = struct{}{}
	r.payments = append(r.payments, p)
	return nil
}

func (r *MemoryRepo) MarkRefunded(ctx context.Context, paymentIntentID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.payments {
		if r.payments[i].PaymentIntentID == paymentIntentID && r.payments[i].Status != StatusRefunded {
			r.payments[i].Status = StatusRefunded
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Payment
	for _, p := range r.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
