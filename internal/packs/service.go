package packs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clarity-backend/internal/diagnostic/deepdive"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/preview"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/shared/telemetry"
)

// Previewer runs the preview a pack is built from. The diagnostics service
// satisfies it and shares its cache.
type Previewer interface {
	Preview(answers intake.Response) (preview.Result, bool)
}

type Service struct {
	Repo      Repo
	Intakes   *intakes.Service
	Previewer Previewer
	Now       func() time.Time
}

func NewService(repo Repo, intakesSvc *intakes.Service) *Service {
	return &Service{Repo: repo, Intakes: intakesSvc, Now: func() time.Time { return time.Now().UTC() }}
}

// Generate builds a fresh draft from the client's latest initial intake and
// stores it, replacing any earlier pack.
func (s *Service) Generate(ctx context.Context, clientID string, prefs deepdive.Prefs) (Pack, error) {
	if s == nil || s.Repo == nil || s.Intakes == nil {
		return Pack{}, errors.New("packs service not configured")
	}
	in, err := s.Intakes.Latest(ctx, clientID, intake.ModeInitial)
	if errors.Is(err, intakes.ErrNotFound) {
		return Pack{}, ErrNoIntake
	}
	if err != nil {
		return Pack{}, fmt.Errorf("load intake: %w", err)
	}

	built := deepdive.Build(deepdive.Input{
		Intake:  in.Answers,
		Preview: s.preview(in.Answers),
		Prefs:   prefs,
	})
	p := Pack{
		ClientID:  clientID,
		Questions: built.Questions,
		Meta:      built.Meta,
		Status:    StatusDraft,
		UpdatedAt: s.now(),
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return Pack{}, fmt.Errorf("save pack: %w", err)
	}
	telemetry.Info("pack.generated", map[string]any{
		"client_id": clientID,
		"pack_id":   p.Meta.PackID,
		"questions": len(p.Questions),
	})
	return p, nil
}

// Save stores an admin-edited question list. Meta is kept from the stored
// pack when the caller sends none.
func (s *Service) Save(ctx context.Context, clientID string, questions []deepdive.Question, meta *deepdive.PackMeta, status Status) (Pack, error) {
	if s == nil || s.Repo == nil {
		return Pack{}, errors.New("packs service not configured")
	}
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return Pack{}, ErrInvalidStatus
	}
	if len(questions) == 0 {
		return Pack{}, ErrEmptyPack
	}
	p := Pack{ClientID: clientID, Questions: questions, Status: status, UpdatedAt: s.now()}
	if meta != nil {
		p.Meta = *meta
	} else if existing, err := s.Repo.Get(ctx, clientID); err == nil {
		p.Meta = existing.Meta
	} else if !errors.Is(err, ErrNotFound) {
		return Pack{}, err
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return Pack{}, fmt.Errorf("save pack: %w", err)
	}
	return p, nil
}

// Ship makes the stored pack visible to the client. Custom packs keep their
// status.
func (s *Service) Ship(ctx context.Context, clientID string) (Pack, error) {
	p, err := s.Get(ctx, clientID)
	if err != nil {
		return Pack{}, err
	}
	if len(p.Questions) == 0 {
		return Pack{}, ErrEmptyPack
	}
	if p.Status != StatusCustom {
		p.Status = StatusShipped
	}
	p.UpdatedAt = s.now()
	if err := s.Repo.Save(ctx, p); err != nil {
		return Pack{}, fmt.Errorf("save pack: %w", err)
	}
	telemetry.Info("pack.shipped", map[string]any{"client_id": clientID, "status": string(p.Status)})
	return p, nil
}

func (s *Service) Get(ctx context.Context, clientID string) (Pack, error) {
	if s == nil || s.Repo == nil {
		return Pack{}, errors.New("packs service not configured")
	}
	if strings.TrimSpace(clientID) == "" {
		return Pack{}, ErrNotFound
	}
	return s.Repo.Get(ctx, clientID)
}

// ClientStatus is the client-facing status of clientID's pack.
func (s *Service) ClientStatus(ctx context.Context, clientID string) (ClientStatus, error) {
	p, err := s.Get(ctx, clientID)
	if errors.Is(err, ErrNotFound) {
		return ClientNone, nil
	}
	if err != nil {
		return ClientNone, err
	}
	return ClientStatusOf(&p), nil
}

// Shipped returns the pack only once it has been sent to the client.
func (s *Service) Shipped(ctx context.Context, clientID string) (Pack, error) {
	p, err := s.Get(ctx, clientID)
	if err != nil {
		return Pack{}, err
	}
	if ClientStatusOf(&p) != ClientShipped {
		return Pack{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) preview(answers intake.Response) preview.Result {
	if s.Previewer != nil {
		res, _ := s.Previewer.Preview(answers)
		return res
	}
	return preview.RunAt(answers, s.now())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
