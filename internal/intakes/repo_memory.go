package intakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"clarity-backend/internal/diagnostic/intake"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	intakes map[string]Intake
	seq     map[string]int
	next    int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{intakes: make(map[string]Intake), seq: make(map[string]int)}
}

func (r *MemoryRepo) Create(ctx context.Context, in Intake) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	in.Answers = in.Answers.Clone()
	r.intakes[in.ID] = in
	r.next++
	r.seq[in.ID] = r.next
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Intake, error) {
	if err := ctx.Err(); err != nil {
		return Intake{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.intakes[id]
	if !ok {
		return Intake{}, ErrNotFound
	}
	in.Answers = in.Answers.Clone()
	return in, nil
}

func (r *MemoryRepo) Latest(ctx context.Context, clientID string, mode intake.Mode) (Intake, error) {
	list, err := r.ListByClient(ctx, clientID)
	if err != nil {
		return Intake{}, err
	}
	for _, in := range list {
		if mode == "" || in.Mode == mode {
			return in, nil
		}
	}
	return Intake{}, ErrNotFound
}

// ListByClient returns the client's intakes newest first. Inserts in the
// same instant keep insertion order.
func (r *MemoryRepo) ListByClient(ctx context.Context, clientID string) ([]Intake, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Intake
	for _, in := range r.intakes {
		if in.ClientID == clientID {
			in.Answers = in.Answers.Clone()
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

func (r *MemoryRepo) UpdateReportStatus(ctx context.Context, id string, status ReportStatus, reportErr string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.intakes[id]
	if !ok {
		return ErrNotFound
	}
	in.ReportStatus = status
	in.ReportError = reportErr
	in.UpdatedAt = time.Now().UTC()
	r.intakes[id] = in
	return nil
}
