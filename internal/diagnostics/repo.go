package diagnostics

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("diagnostic result not found")
	ErrReportNotReady  = errors.New("report not released")
	ErrInvalidIntakeID = errors.New("intake id is required")
)

type Repo interface {
	Create(ctx context.Context, res Result) error
	// Latest returns the client's newest result of the given kind.
	Latest(ctx context.Context, clientID string, kind Kind) (Result, error)
	ListByClient(ctx context.Context, clientID string) ([]Result, error)
}
