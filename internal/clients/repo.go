package clients

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("client not found")
	ErrInvalidEmail = errors.New("invalid email")
)

type Repo interface {
	// Upsert inserts the client or merges non-empty identity fields into the
	// existing row with the same email. It returns the stored record.
	Upsert(ctx context.Context, client Client) (Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	GetByEmail(ctx context.Context, email string) (Client, error)
	List(ctx context.Context) ([]Client, error)
}
