package payments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

const uniqueViolation = "23505"

func (r *PGRepo) Create(ctx context.Context, p Payment) error {
	const query = `
INSERT INTO payments (id, email, client_id, payment_type, amount_cents, currency, status,
                      stripe_event_id, payment_intent_id, session_id, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var metadata any
	if len(p.Metadata) > 0 {
		metadata = []byte(p.Metadata)
	}
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.Email,
		nullableString(p.ClientID),
		string(p.Type),
		p.AmountCents,
		p.Currency,
		string(p.Status),
		p.StripeEventID,
		nullableString(p.PaymentIntentID),
		nullableString(p.SessionID),
		metadata,
		p.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEvent
	}
	return err
}

func (r *PGRepo) MarkRefunded(ctx context.Context, paymentIntentID string) (int64, error) {
	const query = `
UPDATE payments SET status = 'refunded'
WHERE payment_intent_id = $1 AND status <> 'refunded'`
	res, err := r.DB.ExecContext(ctx, query, paymentIntentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepo) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	const query = `
SELECT id, email, client_id, payment_type, amount_cents, currency, status,
       stripe_event_id, payment_intent_id, session_id, metadata, created_at
FROM payments
WHERE email = $1
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var (
			p        Payment
			clientID sql.NullString
			typ      string
			status   string
			intentID sql.NullString
			session  sql.NullString
			metadata []byte
		)
		if err := rows.Scan(&p.ID, &p.Email, &clientID, &typ, &p.AmountCents, &p.Currency, &status,
			&p.StripeEventID, &intentID, &session, &metadata, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ClientID = clientID.String
		p.Type = Type(typ)
		p.Status = Status(status)
		p.PaymentIntentID = intentID.String
		p.SessionID = session.String
		p.Metadata = metadata
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
