package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The snapshot body is stored as a
// JSONB payload because the profile schema is owned by the profile-management
// subsystem; this service only reads it.
type PGRepo struct {
	DB *sql.DB
}

// GetByID returns a profile snapshot, enforcing ownership.
func (r *PGRepo) GetByID(ctx context.Context, userID, profileID string) (Profile, error) {
	const query = `
SELECT id, user_id, payload, updated_at
FROM profiles
WHERE id = $1
LIMIT 1`
	var (
		id      string
		owner   string
		payload []byte
		profile Profile
	)
	err := r.DB.QueryRowContext(ctx, query, profileID).Scan(&id, &owner, &payload, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if owner != userID {
		return Profile{}, ErrForbidden
	}
	if err := json.Unmarshal(payload, &profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile payload: %w", err)
	}
	profile.ID = id
	profile.UserID = owner
	return profile, nil
}

// Put stores or replaces a profile snapshot.
func (r *PGRepo) Put(ctx context.Context, profile Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile payload: %w", err)
	}
	const query = `
INSERT INTO profiles (id, user_id, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	_, err = r.DB.ExecContext(ctx, query, profile.ID, profile.UserID, payload, profile.UpdatedAt)
	return err
}

var _ Repo = (*PGRepo)(nil)
