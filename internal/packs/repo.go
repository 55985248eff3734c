package packs

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("question pack not found")
	ErrInvalidStatus = errors.New("invalid pack status")
	ErrEmptyPack     = errors.New("pack has no questions")
	ErrNoIntake      = errors.New("client has no initial intake")
)

// Repo stores one pack per client.
type Repo interface {
	Get(ctx context.Context, clientID string) (Pack, error)
	Save(ctx context.Context, p Pack) error
}
