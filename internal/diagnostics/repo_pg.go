package diagnostics

import (
	"context"
	"database/sql"
	"errors"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
)

type PGRepo struct {
	DB *sql.DB
}

const resultSelect = `
SELECT id, client_id, intake_id, kind, track, pattern, constraint_type, payload, archive_key, created_at
FROM diagnostic_results`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, res Result) error {
	const query = `
INSERT INTO diagnostic_results (id, client_id, intake_id, kind, track, pattern, constraint_type, payload, archive_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.ClientID,
		res.IntakeID,
		string(res.Kind),
		string(res.Track),
		nullableString(string(res.Pattern)),
		nullableString(string(res.ConstraintType)),
		[]byte(res.Payload),
		nullableString(res.ArchiveKey),
		res.CreatedAt,
	)
	return err
}

func (r *PGRepo) Latest(ctx context.Context, clientID string, kind Kind) (Result, error) {
	const query = resultSelect + `
WHERE client_id = $1 AND kind = $2
ORDER BY created_at DESC
LIMIT 1`
	return scanResult(r.DB.QueryRowContext(ctx, query, clientID, string(kind)))
}

func (r *PGRepo) ListByClient(ctx context.Context, clientID string) ([]Result, error) {
	rows, err := r.DB.QueryContext(ctx, resultSelect+` WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanResult(row rowScanner) (Result, error) {
	var (
		res        Result
		kind       string
		track      string
		pattern    sql.NullString
		constraint sql.NullString
		payload    []byte
		archiveKey sql.NullString
	)
	err := row.Scan(&res.ID, &res.ClientID, &res.IntakeID, &kind, &track, &pattern, &constraint, &payload, &archiveKey, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, err
	}
	res.Kind = Kind(kind)
	res.Track = intake.Track(track)
	res.Pattern = classify.Pattern(pattern.String)
	res.ConstraintType = classify.ConstraintType(constraint.String)
	res.Payload = payload
	res.ArchiveKey = archiveKey.String
	return res, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
