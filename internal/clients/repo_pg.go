package clients

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const clientColumns = `id, email, first_name, business_name, website, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Upsert(ctx context.Context, client Client) (Client, error) {
	const query = `
INSERT INTO clients (id, email, first_name, business_name, website, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (email) DO UPDATE SET
  first_name = COALESCE(EXCLUDED.first_name, clients.first_name),
  business_name = COALESCE(EXCLUDED.business_name, clients.business_name),
  website = COALESCE(EXCLUDED.website, clients.website),
  updated_at = now()
RETURNING ` + clientColumns
	row := r.DB.QueryRowContext(ctx, query,
		client.ID,
		client.Email,
		nullableString(client.FirstName),
		nullableString(client.BusinessName),
		nullableString(client.Website),
	)
	return scanClient(row)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 LIMIT 1`
	return scanClient(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients WHERE email = $1 LIMIT 1`
	return scanClient(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) List(ctx context.Context) ([]Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC, email`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(row rowScanner) (Client, error) {
	var client Client
	var firstName, businessName, website sql.NullString
	err := row.Scan(
		&client.ID,
		&client.Email,
		&firstName,
		&businessName,
		&website,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	client.FirstName = firstName.String
	client.BusinessName = businessName.String
	client.Website = website.String
	return client, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
