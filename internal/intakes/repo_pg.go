package intakes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clarity-backend/internal/diagnostic/intake"
)

type PGRepo struct {
	DB *sql.DB
}

const intakeSelect = `
SELECT i.id, i.client_id, c.email, i.mode, i.track, i.answers, i.fingerprint,
       i.report_status, i.report_error, i.created_at, i.updated_at
FROM intakes i
JOIN clients c ON c.id = i.client_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, in Intake) error {
	const query = `
INSERT INTO intakes (id, client_id, mode, track, answers, fingerprint, report_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	answers, err := json.Marshal(in.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	status := in.ReportStatus
	if status == "" {
		status = ReportNone
	}
	_, err = r.DB.ExecContext(ctx, query,
		in.ID,
		in.ClientID,
		string(in.Mode),
		string(in.Track),
		answers,
		in.Fingerprint,
		string(status),
		in.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Intake, error) {
	return scanIntake(r.DB.QueryRowContext(ctx, intakeSelect+` WHERE i.id = $1`, id))
}

func (r *PGRepo) Latest(ctx context.Context, clientID string, mode intake.Mode) (Intake, error) {
	const query = intakeSelect + `
WHERE i.client_id = $1 AND ($2 = '' OR i.mode = $2)
ORDER BY i.created_at DESC
LIMIT 1`
	return scanIntake(r.DB.QueryRowContext(ctx, query, clientID, string(mode)))
}

func (r *PGRepo) ListByClient(ctx context.Context, clientID string) ([]Intake, error) {
	rows, err := r.DB.QueryContext(ctx, intakeSelect+` WHERE i.client_id = $1 ORDER BY i.created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Intake
	for rows.Next() {
		in, err := scanIntake(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateReportStatus(ctx context.Context, id string, status ReportStatus, reportErr string) error {
	const query = `
UPDATE intakes
SET report_status = $2, report_error = $3, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, string(status), nullableString(reportErr))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanIntake(row rowScanner) (Intake, error) {
	var in Intake
	var mode, track, status string
	var answers []byte
	var reportErr sql.NullString
	err := row.Scan(
		&in.ID,
		&in.ClientID,
		&in.Email,
		&mode,
		&track,
		&answers,
		&in.Fingerprint,
		&status,
		&reportErr,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Intake{}, ErrNotFound
		}
		return Intake{}, err
	}
	in.Mode = intake.Mode(mode)
	in.Track = intake.Track(track)
	in.ReportStatus = ReportStatus(status)
	in.ReportError = reportErr.String
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &in.Answers); err != nil {
			return Intake{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	return in, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
