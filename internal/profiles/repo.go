package profiles

import "context"

// Repo defines read access to profile snapshots.
type Repo interface {
	GetByID(ctx context.Context, userID, profileID string) (Profile, error)
	Put(ctx context.Context, profile Profile) error
}
