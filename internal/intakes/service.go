package intakes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clarity-backend/internal/diagnostic/intake"
)

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Save stores a submitted intake for the client. Answers are stored as
// given; the resolved track and fingerprint are computed on the normalized
// view.
func (s *Service) Save(ctx context.Context, clientID, email string, mode intake.Mode, answers intake.Response) (Intake, error) {
	if s == nil || s.Repo == nil {
		return Intake{}, errors.New("intakes service not configured")
	}
	if strings.TrimSpace(clientID) == "" {
		return Intake{}, errors.New("client id is required")
	}
	if !mode.Valid() {
		return Intake{}, ErrInvalidMode
	}
	if len(answers.Keys()) == 0 {
		return Intake{}, ErrNoAnswers
	}
	normalized := intake.Normalize(answers)
	now := s.now()
	in := Intake{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		Email:        email,
		Mode:         mode,
		Track:        intake.ResolveTrack(normalized),
		Answers:      answers.Clone(),
		Fingerprint:  intake.Fingerprint(normalized),
		ReportStatus: ReportNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, in); err != nil {
		return Intake{}, fmt.Errorf("create intake: %w", err)
	}
	return in, nil
}

func (s *Service) Get(ctx context.Context, id string) (Intake, error) {
	if s == nil || s.Repo == nil {
		return Intake{}, errors.New("intakes service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return Intake{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Latest returns the newest intake of the given mode; an empty mode matches
// any.
func (s *Service) Latest(ctx context.Context, clientID string, mode intake.Mode) (Intake, error) {
	if s == nil || s.Repo == nil {
		return Intake{}, errors.New("intakes service not configured")
	}
	return s.Repo.Latest(ctx, clientID, mode)
}

func (s *Service) List(ctx context.Context, clientID string) ([]Intake, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("intakes service not configured")
	}
	return s.Repo.ListByClient(ctx, clientID)
}

// ReportAnswers is the answer set a full report runs on: the client's latest
// initial intake overlaid with the deep intake's answers. A deep intake with
// no initial intake on record runs alone.
func (s *Service) ReportAnswers(ctx context.Context, deep Intake) (intake.Response, error) {
	initial, err := s.Latest(ctx, deep.ClientID, intake.ModeInitial)
	switch {
	case errors.Is(err, ErrNotFound):
		return deep.Answers.Clone(), nil
	case err != nil:
		return nil, fmt.Errorf("load initial intake: %w", err)
	}
	return initial.Answers.Merge(deep.Answers), nil
}

func (s *Service) SetReportStatus(ctx context.Context, id string, status ReportStatus, reportErr error) error {
	if s == nil || s.Repo == nil {
		return errors.New("intakes service not configured")
	}
	msg := ""
	if reportErr != nil {
		msg = reportErr.Error()
	}
	return s.Repo.UpdateReportStatus(ctx, id, status, msg)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
