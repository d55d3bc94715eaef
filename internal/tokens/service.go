package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"cvgen-backend/internal/shared/telemetry"
)

// Service issues and consumes document download tokens.
type Service struct {
	Repo    Repo
	TTL     time.Duration
	MaxUses int

	now func() time.Time
}

func NewService(repo Repo, ttl time.Duration, maxUses int) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxUses <= 0 {
		maxUses = 5
	}
	return &Service{Repo: repo, TTL: ttl, MaxUses: maxUses, now: time.Now}
}

// IssueOptions override the service defaults for one token. A nil TTL
// falls back to the configured default; an explicit zero (or negative)
// TTL yields a token that is already expired and can never be consumed.
// A MaxUses of zero falls back to the configured use cap.
type IssueOptions struct {
	TTL     *time.Duration
	MaxUses int
}

// Issue creates a token for the document. Callers are expected to have
// verified document ownership already.
func (s *Service) Issue(ctx context.Context, documentID string, opts IssueOptions) (AccessToken, error) {
	ttl := s.TTL
	if opts.TTL != nil {
		ttl = *opts.TTL
	}
	maxUses := opts.MaxUses
	if maxUses <= 0 {
		maxUses = s.MaxUses
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return AccessToken{}, fmt.Errorf("generate token: %w", err)
	}

	now := s.now().UTC()
	token := AccessToken{
		Token:      hex.EncodeToString(raw),
		DocumentID: documentID,
		ExpiresAt:  now.Add(ttl),
		MaxUses:    maxUses,
		CreatedAt:  now,
	}
	if err := s.Repo.Create(ctx, token); err != nil {
		return AccessToken{}, err
	}
	return token, nil
}

// Consume validates the token, spends one use, and returns it. The token
// must also match the document it was issued for; a valid token for
// document A grants nothing for document B.
func (s *Service) Consume(ctx context.Context, token, documentID string) (AccessToken, error) {
	now := s.now().UTC()
	t, err := s.Repo.Consume(ctx, token, now)
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			telemetry.Info("tokens.consume.rejected", map[string]any{"reason": s.rejectReason(ctx, token, now)})
		}
		return AccessToken{}, err
	}
	if t.DocumentID != documentID {
		telemetry.Info("tokens.consume.rejected", map[string]any{"reason": "document_mismatch"})
		return AccessToken{}, ErrTokenInvalid
	}
	return t, nil
}

// rejectReason re-reads the token after a consume miss so operators can
// tell unknown, revoked, expired, and exhausted rejections apart. The
// caller-facing error stays ErrTokenInvalid either way.
func (s *Service) rejectReason(ctx context.Context, token string, now time.Time) string {
	t, err := s.Repo.Inspect(ctx, token)
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case err != nil:
		return "unknown"
	case t.Revoked:
		return "revoked"
	case !now.Before(t.ExpiresAt):
		return "expired"
	case t.UseCount >= t.MaxUses:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Revoke invalidates the token immediately.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.Repo.Revoke(ctx, token)
}

// RunGC removes expired tokens on a fixed interval until ctx is cancelled.
// Expired tokens already fail Consume; the sweep only keeps the table from
// accumulating dead rows.
func (s *Service) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Repo.DeleteExpired(ctx, s.now().UTC())
			if err != nil {
				telemetry.Warn("tokens.gc.failed", map[string]any{"error": err.Error()})
				continue
			}
			if removed > 0 {
				telemetry.Info("tokens.gc.removed", map[string]any{"removed": removed})
			}
		}
	}
}
