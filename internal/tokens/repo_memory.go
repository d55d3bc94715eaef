package tokens

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	tokens map[string]AccessToken
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tokens: make(map[string]AccessToken)}
}

func (r *MemoryRepo) Create(_ context.Context, token AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

func (r *MemoryRepo) Consume(_ context.Context, token string, now time.Time) (AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok || t.Revoked || !now.Before(t.ExpiresAt) || t.UseCount >= t.MaxUses {
		return AccessToken{}, ErrTokenInvalid
	}
	t.UseCount++
	r.tokens[token] = t
	return t, nil
}

func (r *MemoryRepo) Inspect(_ context.Context, token string) (AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return AccessToken{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return ErrNotFound
	}
	t.Revoked = true
	r.tokens[token] = t
	return nil
}

func (r *MemoryRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for key, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed, nil
}

var _ Repo = (*MemoryRepo)(nil)
