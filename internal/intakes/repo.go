package intakes

import (
	"context"
	"errors"

	"clarity-backend/internal/diagnostic/intake"
)

var (
	ErrNotFound    = errors.New("intake not found")
	ErrInvalidMode = errors.New("invalid intake mode")
	ErrNoAnswers   = errors.New("answers are required")
)

type Repo interface {
	Create(ctx context.Context, in Intake) error
	GetByID(ctx context.Context, id string) (Intake, error)
	// Latest returns the newest intake for the client, optionally limited to
	// one mode. An empty mode matches both.
	Latest(ctx context.Context, clientID string, mode intake.Mode) (Intake, error)
	ListByClient(ctx context.Context, clientID string) ([]Intake, error)
	UpdateReportStatus(ctx context.Context, id string, status ReportStatus, reportErr string) error
}
