package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/preview"
	"clarity-backend/internal/diagnostic/report"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/notify"
	"clarity-backend/internal/queue"
	"clarity-backend/internal/shared/metrics"
	"clarity-backend/internal/shared/telemetry"
)

// Curation answers the admin-side questions a report read depends on.
type Curation interface {
	ReportReleased(ctx context.Context, clientID string) (bool, error)
	Overrides(ctx context.Context, clientID string) (map[string]string, error)
}

type Service struct {
	Clients  *clients.Service
	Intakes  *intakes.Service
	Results  Repo
	Cache    *PreviewCache
	Archive  *Archive
	Queue    queue.Client
	Notifier notify.Notifier
	// Curation gates report reads. When nil every stored report is
	// readable.
	Curation Curation
	Now      func() time.Time
}

func NewService(clientsSvc *clients.Service, intakesSvc *intakes.Service, results Repo) *Service {
	return &Service{
		Clients:  clientsSvc,
		Intakes:  intakesSvc,
		Results:  results,
		Notifier: notify.LogNotifier{},
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

type SubmitInput struct {
	Email     string
	Mode      intake.Mode
	Answers   intake.Response
	RequestID string
}

// Submission is what a stored intake produced. Preview is set for initial
// intakes only.
type Submission struct {
	Client  clients.Client
	Intake  intakes.Intake
	Preview *preview.Result
}

// ReportView is a full report as the client or an admin reads it.
type ReportView struct {
	Result    Result            `json:"result"`
	Overrides map[string]string `json:"overrides,omitempty"`
	Released  bool              `json:"released"`
}

func (s *Service) configured() error {
	if s == nil || s.Clients == nil || s.Intakes == nil || s.Results == nil {
		return errors.New("diagnostics service not configured")
	}
	return nil
}

// Submit stores an intake for the submitting client. Initial intakes get
// their preview computed and stored inline; deep intakes get a report job.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Submission, error) {
	if err := s.configured(); err != nil {
		return Submission{}, err
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = in.Answers.Email()
	}
	client, err := s.Clients.Upsert(ctx, email, clients.IdentityFromAnswers(in.Answers))
	if err != nil {
		return Submission{}, err
	}
	saved, err := s.Intakes.Save(ctx, client.ID, client.Email, in.Mode, in.Answers)
	if err != nil {
		return Submission{}, err
	}
	sub := Submission{Client: client, Intake: saved}

	switch saved.Mode {
	case intake.ModeInitial:
		p, _ := s.Preview(in.Answers)
		if err := s.storePreview(ctx, saved, p); err != nil {
			return Submission{}, err
		}
		sub.Preview = &p
	case intake.ModeDeep:
		status, err := s.scheduleReport(ctx, saved, in.RequestID)
		if err != nil {
			return Submission{}, err
		}
		sub.Intake.ReportStatus = status
	}

	notify.Send(ctx, s.Notifier, notify.Submission{
		Kind:       notify.Kind(saved.Mode),
		Email:      client.Email,
		ClientName: client.DisplayName(),
		Track:      string(saved.Track),
		At:         saved.CreatedAt,
	})
	return sub, nil
}

// Preview runs the preview engine for today's date, through the cache when
// one is configured. The second result reports a cache hit.
func (s *Service) Preview(answers intake.Response) (preview.Result, bool) {
	now := s.now()
	date := now.Format("2006-01-02")
	fingerprint := intake.Fingerprint(intake.Normalize(answers))
	if cached, ok := s.Cache.Get(fingerprint, date); ok {
		metrics.ObservePreview(string(cached.Track), true)
		return cached, true
	}
	res := preview.RunAt(answers, now)
	s.Cache.Add(fingerprint, date, res)
	metrics.ObservePreview(string(res.Track), false)
	return res, false
}

func (s *Service) storePreview(ctx context.Context, in intakes.Intake, p preview.Result) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	res := Result{
		ID:             uuid.NewString(),
		ClientID:       in.ClientID,
		IntakeID:       in.ID,
		Kind:           KindPreview,
		Track:          p.Track,
		Pattern:        classify.Eligibility(intake.Normalize(in.Answers)).Metadata.Pattern,
		ConstraintType: p.ConstraintType,
		Payload:        payload,
		CreatedAt:      s.now(),
	}
	if err := s.Results.Create(ctx, res); err != nil {
		return fmt.Errorf("store preview: %w", err)
	}
	return nil
}

// scheduleReport queues the report job, or builds the report inline when no
// queue is configured. Inline failures are recorded on the intake and do not
// fail the submission.
func (s *Service) scheduleReport(ctx context.Context, in intakes.Intake, requestID string) (intakes.ReportStatus, error) {
	if requestID == "" {
		requestID = telemetry.RequestID(ctx)
	}
	if s.Queue == nil {
		if err := s.ProcessReport(ctx, in.ID); err != nil {
			telemetry.Warn("report.inline_failed", map[string]any{
				"intake_id": in.ID,
				"error":     err,
			})
			return intakes.ReportFailed, nil
		}
		return intakes.ReportCompleted, nil
	}

	if err := s.Intakes.SetReportStatus(ctx, in.ID, intakes.ReportQueued, nil); err != nil {
		return "", fmt.Errorf("mark report queued: %w", err)
	}
	if _, err := queue.EnqueueReport(ctx, s.Queue, in.ID, requestID, s.now()); err != nil {
		_ = s.Intakes.SetReportStatus(ctx, in.ID, intakes.ReportFailed, err)
		metrics.IncReportJob(metrics.JobFailed)
		return "", fmt.Errorf("enqueue report: %w", err)
	}
	metrics.IncReportJob(metrics.JobQueued)
	telemetry.Info("report.queued", map[string]any{
		"intake_id":  in.ID,
		"client_id":  in.ClientID,
		"request_id": requestID,
	})
	return intakes.ReportQueued, nil
}

// ProcessReport builds, stores and archives the full report for an intake.
// An intake whose report already completed is left alone so redelivered
// jobs are harmless.
func (s *Service) ProcessReport(ctx context.Context, intakeID string) error {
	if err := s.configured(); err != nil {
		return err
	}
	if strings.TrimSpace(intakeID) == "" {
		return ErrInvalidIntakeID
	}
	in, err := s.Intakes.Get(ctx, intakeID)
	if err != nil {
		return err
	}
	if in.ReportStatus == intakes.ReportCompleted {
		telemetry.Info("report.skip_completed", map[string]any{"intake_id": in.ID})
		return nil
	}

	start := time.Now()
	if err := s.Intakes.SetReportStatus(ctx, in.ID, intakes.ReportProcessing, nil); err != nil {
		return fmt.Errorf("mark report processing: %w", err)
	}

	res, err := s.buildReport(ctx, in)
	if err != nil {
		s.failReport(ctx, in, err)
		return err
	}
	if err := s.Intakes.SetReportStatus(ctx, in.ID, intakes.ReportCompleted, nil); err != nil {
		return fmt.Errorf("mark report completed: %w", err)
	}

	metrics.IncReportJob(metrics.JobCompleted)
	metrics.ObserveReportDuration(time.Since(start))
	telemetry.Info("report.completed", map[string]any{
		"intake_id":   in.ID,
		"client_id":   in.ClientID,
		"result_id":   res.ID,
		"archive_key": res.ArchiveKey,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (s *Service) buildReport(ctx context.Context, in intakes.Intake) (Result, error) {
	answers := in.Answers
	if in.Mode == intake.ModeDeep {
		merged, err := s.Intakes.ReportAnswers(ctx, in)
		if err != nil {
			return Result{}, err
		}
		answers = merged
	}

	now := s.now()
	full := report.RunAt(answers, now)
	payload, err := json.Marshal(full)
	if err != nil {
		return Result{}, fmt.Errorf("encode report: %w", err)
	}
	res := Result{
		ID:             uuid.NewString(),
		ClientID:       in.ClientID,
		IntakeID:       in.ID,
		Kind:           KindFull,
		Track:          full.Report.Track,
		Pattern:        classify.Eligibility(intake.Normalize(answers)).Metadata.Pattern,
		ConstraintType: full.Report.PrimaryConstraint,
		Payload:        payload,
		CreatedAt:      now,
	}

	key, err := s.Archive.Save(ctx, in.ClientID, res.ID, payload)
	if err != nil {
		telemetry.Warn("report.archive_failed", map[string]any{
			"intake_id": in.ID,
			"error":     err,
		})
	}
	res.ArchiveKey = key

	if err := s.Results.Create(ctx, res); err != nil {
		return Result{}, fmt.Errorf("store report: %w", err)
	}
	return res, nil
}

func (s *Service) failReport(ctx context.Context, in intakes.Intake, cause error) {
	metrics.IncReportJob(metrics.JobFailed)
	if err := s.Intakes.SetReportStatus(telemetry.Detach(ctx), in.ID, intakes.ReportFailed, cause); err != nil {
		telemetry.Error("report.status_update_failed", map[string]any{
			"intake_id": in.ID,
			"error":     err,
		})
	}
	telemetry.Error("report.failed", map[string]any{
		"intake_id": in.ID,
		"client_id": in.ClientID,
		"error":     cause,
	})
}

// LatestIntake returns the newest intake of the given mode for email; an
// empty mode matches any.
func (s *Service) LatestIntake(ctx context.Context, email string, mode intake.Mode) (intakes.Intake, error) {
	if err := s.configured(); err != nil {
		return intakes.Intake{}, err
	}
	client, err := s.Clients.GetByEmail(ctx, email)
	if err != nil {
		return intakes.Intake{}, err
	}
	return s.Intakes.Latest(ctx, client.ID, mode)
}

// LatestPreview returns the client's newest stored preview result.
func (s *Service) LatestPreview(ctx context.Context, clientID string) (Result, error) {
	if err := s.configured(); err != nil {
		return Result{}, err
	}
	return s.Results.Latest(ctx, clientID, KindPreview)
}

// LatestReport returns the newest full report for email. Clients only see
// released reports; admins see every report along with its release state.
func (s *Service) LatestReport(ctx context.Context, email string, admin bool) (ReportView, error) {
	if err := s.configured(); err != nil {
		return ReportView{}, err
	}
	client, err := s.Clients.GetByEmail(ctx, email)
	if err != nil {
		return ReportView{}, err
	}
	res, err := s.Results.Latest(ctx, client.ID, KindFull)
	if err != nil {
		return ReportView{}, err
	}

	view := ReportView{Result: res, Released: true}
	if s.Curation == nil {
		return view, nil
	}
	released, err := s.Curation.ReportReleased(ctx, client.ID)
	if err != nil {
		return ReportView{}, fmt.Errorf("report release: %w", err)
	}
	if !released && !admin {
		return ReportView{}, ErrReportNotReady
	}
	overrides, err := s.Curation.Overrides(ctx, client.ID)
	if err != nil {
		return ReportView{}, fmt.Errorf("report overrides: %w", err)
	}
	view.Released = released
	view.Overrides = overrides
	return view, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
