package tokens

import (
	"context"
	"time"
)

// Repo defines persistence for access tokens.
type Repo interface {
	Create(ctx context.Context, token AccessToken) error

	// Consume atomically validates and spends one use: the increment only
	// happens if the token exists, is not revoked, has not expired, and has
	// uses left. Concurrent downloads can never overshoot MaxUses. Returns
	// ErrTokenInvalid when any check fails.
	Consume(ctx context.Context, token string, now time.Time) (AccessToken, error)

	// Inspect reads the token without spending a use. Returns ErrNotFound
	// for unknown tokens. Used to classify consume rejections after the
	// fact; never to decide whether a download proceeds.
	Inspect(ctx context.Context, token string) (AccessToken, error)

	// Revoke marks the token unusable. Idempotent for already revoked rows.
	Revoke(ctx context.Context, token string) error

	// DeleteExpired removes rows whose expiry is older than cutoff and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
