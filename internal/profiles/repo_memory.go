package profiles

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Profile // profileId -> profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Profile)}
}

// GetByID returns a profile snapshot, enforcing ownership.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, profileID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.data[profileID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	if profile.UserID != userID {
		return Profile{}, ErrForbidden
	}
	return profile, nil
}

// Put stores or replaces a profile snapshot.
func (r *MemoryRepo) Put(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[profile.ID] = profile
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
