package admin

import (
	"context"
	"database/sql"
)

type PGNotesRepo struct {
	DB *sql.DB
}

func (r *PGNotesRepo) Add(ctx context.Context, n Note) error {
	const query = `
INSERT INTO admin_notes (id, client_id, author, body, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, n.ID, n.ClientID, n.Author, n.Body, n.CreatedAt)
	return err
}

func (r *PGNotesRepo) List(ctx context.Context, clientID string) ([]Note, error) {
	const query = `
SELECT id, client_id, author, body, created_at
FROM admin_notes
WHERE client_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ClientID, &n.Author, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGNotesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admin_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrNoteNotFound)
}

type PGOverridesRepo struct {
	DB *sql.DB
}

func (r *PGOverridesRepo) Upsert(ctx context.Context, o Override) error {
	const query = `
INSERT INTO report_overrides (client_id, section_key, content, updated_by, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (client_id, section_key) DO UPDATE SET
    content = EXCLUDED.content,
    updated_by = EXCLUDED.updated_by,
    updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query, o.ClientID, o.SectionKey, o.Content, o.UpdatedBy, o.UpdatedAt)
	return err
}

func (r *PGOverridesRepo) List(ctx context.Context, clientID string) ([]Override, error) {
	const query = `
SELECT client_id, section_key, content, updated_by, updated_at
FROM report_overrides
WHERE client_id = $1
ORDER BY section_key`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.ClientID, &o.SectionKey, &o.Content, &o.UpdatedBy, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGOverridesRepo) Delete(ctx context.Context, clientID, sectionKey string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM report_overrides WHERE client_id = $1 AND section_key = $2`, clientID, sectionKey)
	if err != nil {
		return err
	}
	return requireRow(res, ErrOverrideNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
