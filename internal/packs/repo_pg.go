package packs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, clientID string) (Pack, error) {
	const query = `
SELECT client_id, questions, meta, status, updated_at
FROM question_packs
WHERE client_id = $1`
	var (
		p         Pack
		questions []byte
		meta      []byte
		status    string
	)
	err := r.DB.QueryRowContext(ctx, query, clientID).Scan(&p.ClientID, &questions, &meta, &status, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Pack{}, ErrNotFound
	}
	if err != nil {
		return Pack{}, err
	}
	if err := json.Unmarshal(questions, &p.Questions); err != nil {
		return Pack{}, fmt.Errorf("decode questions: %w", err)
	}
	if err := json.Unmarshal(meta, &p.Meta); err != nil {
		return Pack{}, fmt.Errorf("decode pack meta: %w", err)
	}
	p.Status = Status(status)
	return p, nil
}

func (r *PGRepo) Save(ctx context.Context, p Pack) error {
	const query = `
INSERT INTO question_packs (client_id, questions, meta, status, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (client_id) DO UPDATE SET
    questions = EXCLUDED.questions,
    meta = EXCLUDED.meta,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`
	questions, err := json.Marshal(p.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	meta, err := json.Marshal(p.Meta)
	if err != nil {
		return fmt.Errorf("encode pack meta: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, p.ClientID, questions, meta, string(p.Status), p.UpdatedAt)
	return err
}
