package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostics"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/packs"
	"clarity-backend/internal/payments"
	"clarity-backend/internal/shared/telemetry"
)

const overviewConcurrency = 8

type Service struct {
	Notes       NotesRepo
	Overrides   OverridesRepo
	Clients     *clients.Service
	Intakes     *intakes.Service
	Payments    *payments.Service
	Packs       *packs.Service
	Diagnostics *diagnostics.Service
	Now         func() time.Time
}

func (s *Service) configured() error {
	if s == nil || s.Notes == nil || s.Overrides == nil {
		return errors.New("admin service not configured")
	}
	return nil
}

func (s *Service) AddNote(ctx context.Context, clientID, author, tag, body string) (Note, error) {
	if err := s.configured(); err != nil {
		return Note{}, err
	}
	if strings.TrimSpace(body) == "" {
		return Note{}, ErrEmptyNote
	}
	if s.Clients != nil {
		if _, err := s.Clients.GetByID(ctx, clientID); err != nil {
			return Note{}, err
		}
	}
	n := Note{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Author:    author,
		Body:      FormatNote(tag, body),
		CreatedAt: s.now(),
	}
	if err := s.Notes.Add(ctx, n); err != nil {
		return Note{}, fmt.Errorf("add note: %w", err)
	}
	telemetry.Info("admin.note_added", map[string]any{
		"client_id": clientID,
		"author":    author,
		"tag":       tag,
	})
	return n, nil
}

func (s *Service) ListNotes(ctx context.Context, clientID string) ([]Note, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	return s.Notes.List(ctx, clientID)
}

func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.configured(); err != nil {
		return err
	}
	return s.Notes.Delete(ctx, id)
}

// ReleaseReport lets the client read their full report.
func (s *Service) ReleaseReport(ctx context.Context, clientID, author string) (Note, error) {
	body := "Report released for client viewing on " + s.now().Format("Jan 2, 2006")
	return s.AddNote(ctx, clientID, author, TagReportReleased, body)
}

// MarkDelivered moves the client to the delivered stage.
func (s *Service) MarkDelivered(ctx context.Context, clientID, author string) (Note, error) {
	body := "Delivered on " + s.now().Format("Jan 2, 2006")
	return s.AddNote(ctx, clientID, author, TagDelivered, body)
}

// ReportReleased reports whether a release note exists for the client.
func (s *Service) ReportReleased(ctx context.Context, clientID string) (bool, error) {
	notes, err := s.ListNotes(ctx, clientID)
	if err != nil {
		return false, err
	}
	return anyTagged(notes, TagReportReleased), nil
}

func (s *Service) SaveOverride(ctx context.Context, clientID, sectionKey, content, author string) (Override, error) {
	if err := s.configured(); err != nil {
		return Override{}, err
	}
	if !ValidSection(sectionKey) {
		return Override{}, ErrUnknownSection
	}
	o := Override{
		ClientID:   clientID,
		SectionKey: sectionKey,
		Content:    content,
		UpdatedBy:  author,
		UpdatedAt:  s.now(),
	}
	if err := s.Overrides.Upsert(ctx, o); err != nil {
		return Override{}, fmt.Errorf("save override: %w", err)
	}
	return o, nil
}

func (s *Service) DeleteOverride(ctx context.Context, clientID, sectionKey string) error {
	if err := s.configured(); err != nil {
		return err
	}
	if !ValidSection(sectionKey) {
		return ErrUnknownSection
	}
	return s.Overrides.Delete(ctx, clientID, sectionKey)
}

func (s *Service) ListOverrides(ctx context.Context, clientID string) ([]Override, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	return s.Overrides.List(ctx, clientID)
}

// Overrides returns the client's section overrides keyed by section.
func (s *Service) Overrides(ctx context.Context, clientID string) (map[string]string, error) {
	list, err := s.ListOverrides(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, o := range list {
		out[o.SectionKey] = o.Content
	}
	return out, nil
}

// Stage derives where the client is in the engagement from intakes,
// payments and notes.
func (s *Service) Stage(ctx context.Context, client clients.Client) (clients.Stage, error) {
	notes, err := s.ListNotes(ctx, client.ID)
	if err != nil {
		return "", err
	}
	var pay payments.Summary
	if s.Payments != nil {
		if pay, err = s.Payments.Status(ctx, client.Email); err != nil {
			return "", err
		}
	}
	return s.stage(ctx, client, pay, notes)
}

func (s *Service) stage(ctx context.Context, client clients.Client, pay payments.Summary, notes []Note) (clients.Stage, error) {
	sig := clients.Signals{
		DepositPaid: pay.DepositPaid,
		BalancePaid: pay.BalancePaid,
		Delivered:   anyTagged(notes, TagDelivered),
	}
	if s.Intakes != nil {
		list, err := s.Intakes.List(ctx, client.ID)
		if err != nil {
			return "", err
		}
		for _, in := range list {
			sig.HasIntake = true
			if in.Mode == intake.ModeDeep {
				sig.HasDeepDive = true
			}
		}
	}
	return clients.DeriveStage(sig), nil
}

// Overview builds one row per client, newest client first.
func (s *Service) Overview(ctx context.Context) ([]ClientOverview, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	if s.Clients == nil {
		return nil, errors.New("admin service not configured")
	}
	list, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ClientOverview, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)
	for i, client := range list {
		i, client := i, client
		g.Go(func() error {
			row, err := s.overviewRow(gctx, client)
			if err != nil {
				return fmt.Errorf("client %s: %w", client.ID, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) overviewRow(ctx context.Context, client clients.Client) (ClientOverview, error) {
	row := ClientOverview{Client: client, DisplayName: client.DisplayName(), PackStatus: packs.ClientNone}

	notes, err := s.Notes.List(ctx, client.ID)
	if err != nil {
		return ClientOverview{}, err
	}
	row.NoteCount = len(notes)
	row.ReportReleased = anyTagged(notes, TagReportReleased)

	if s.Payments != nil {
		if row.Payment, err = s.Payments.Status(ctx, client.Email); err != nil {
			return ClientOverview{}, err
		}
	}
	if row.Stage, err = s.stage(ctx, client, row.Payment, notes); err != nil {
		return ClientOverview{}, err
	}
	row.StageLabel = row.Stage.Label()

	if s.Packs != nil {
		if row.PackStatus, err = s.Packs.ClientStatus(ctx, client.ID); err != nil {
			return ClientOverview{}, err
		}
	}
	if s.Diagnostics != nil {
		res, err := s.Diagnostics.LatestPreview(ctx, client.ID)
		switch {
		case err == nil:
			row.Pattern = res.Pattern
			at := res.CreatedAt
			row.PreviewAt = &at
		case !errors.Is(err, diagnostics.ErrNotFound):
			return ClientOverview{}, err
		}
	}
	return row, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
