package admin

import (
	"context"
	"errors"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrOverrideNotFound = errors.New("override not found")
	ErrUnknownSection   = errors.New("unknown report section")
	ErrEmptyNote        = errors.New("note is required")
)

type NotesRepo interface {
	Add(ctx context.Context, n Note) error
	// List returns the client's notes newest first.
	List(ctx context.Context, clientID string) ([]Note, error)
	Delete(ctx context.Context, id string) error
}

type OverridesRepo interface {
	Upsert(ctx context.Context, o Override) error
	List(ctx context.Context, clientID string) ([]Override, error)
	Delete(ctx context.Context, clientID, sectionKey string) error
}
