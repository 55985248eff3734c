package admin

import (
	"context"
	"sort"
	"sync"
)

type MemoryNotesRepo struct {
	mu    sync.RWMutex
	notes []Note
}

func NewMemoryNotesRepo() *MemoryNotesRepo {
	return &MemoryNotesRepo{}
}

func (r *MemoryNotesRepo) Add(ctx context.Context, n Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return nil
}

func (r *MemoryNotesRepo) List(ctx context.Context, clientID string) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Note
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].ClientID == clientID {
			out = append(out, r.notes[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryNotesRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notes {
		if n.ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return ErrNoteNotFound
}

type MemoryOverridesRepo struct {
	mu        sync.RWMutex
	overrides map[string]map[string]Override
}

func NewMemoryOverridesRepo() *MemoryOverridesRepo {
	return &MemoryOverridesRepo{overrides: make(map[string]map[string]Override)}
}

func (r *MemoryOverridesRepo) Upsert(ctx context.Context, o Override) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byKey, ok := r.overrides[o.ClientID]
	if !ok {
		byKey = make(map[string]Override)
		r.overrides[o.ClientID] = byKey
	}
	byKey[o.SectionKey] = o
	return nil
}

func (r *MemoryOverridesRepo) List(ctx context.Context, clientID string) ([]Override, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Override, 0, len(r.overrides[clientID]))
	for _, o := range r.overrides[clientID] {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SectionKey < out[j].SectionKey })
	return out, nil
}

func (r *MemoryOverridesRepo) Delete(ctx context.Context, clientID, sectionKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[clientID][sectionKey]; !ok {
		return ErrOverrideNotFound
	}
	delete(r.overrides[clientID], sectionKey)
	return nil
}
