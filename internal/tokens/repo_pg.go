package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo on Postgres. Consume is a single guarded UPDATE,
// so validation and use counting cannot race.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, token AccessToken) error {
	const query = `
INSERT INTO access_tokens (token, document_id, expires_at, use_count, max_uses, revoked, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		token.Token,
		token.DocumentID,
		token.ExpiresAt,
		token.UseCount,
		token.MaxUses,
		token.Revoked,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *PGRepo) Consume(ctx context.Context, token string, now time.Time) (AccessToken, error) {
	const query = `
UPDATE access_tokens
SET use_count = use_count + 1
WHERE token = $1
  AND NOT revoked
  AND expires_at > $2
  AND use_count < max_uses
RETURNING token, document_id, expires_at, use_count, max_uses, revoked, created_at`

	var t AccessToken
	err := r.DB.QueryRowContext(ctx, query, token, now).Scan(
		&t.Token,
		&t.DocumentID,
		&t.ExpiresAt,
		&t.UseCount,
		&t.MaxUses,
		&t.Revoked,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccessToken{}, ErrTokenInvalid
		}
		return AccessToken{}, err
	}
	return t, nil
}

func (r *PGRepo) Inspect(ctx context.Context, token string) (AccessToken, error) {
	const query = `
SELECT token, document_id, expires_at, use_count, max_uses, revoked, created_at
FROM access_tokens
WHERE token = $1`

	var t AccessToken
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&t.Token,
		&t.DocumentID,
		&t.ExpiresAt,
		&t.UseCount,
		&t.MaxUses,
		&t.Revoked,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccessToken{}, ErrNotFound
		}
		return AccessToken{}, err
	}
	return t, nil
}

func (r *PGRepo) Revoke(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE access_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM access_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ Repo = (*PGRepo)(nil)
