package gendocs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvgen-backend/internal/shared/storage/object"
	"cvgen-backend/internal/shared/telemetry"
	"cvgen-backend/internal/shared/util"
)

// Service owns the document ledger: it stores rendered bytes, assigns
// versions, and enforces the storage quota.
type Service struct {
	Repo       Repo
	Store      object.ObjectStore
	QuotaBytes int64
}

func NewService(repo Repo, store object.ObjectStore, quotaBytes int64) *Service {
	return &Service{Repo: repo, Store: store, QuotaBytes: quotaBytes}
}

// RegisterInput carries a finished render into the ledger.
type RegisterInput struct {
	UserID     string
	ProfileID  string
	TemplateID string
	JobID      string
	Label      string
	Format     string
	Bytes      []byte
}

// CheckQuota reports whether sizeBytes more would fit under the user's
// quota. An advisory pre-check; Register re-checks atomically.
func (s *Service) CheckQuota(ctx context.Context, userID string, sizeBytes int64) error {
	if s.QuotaBytes <= 0 {
		return nil
	}
	used, err := s.Repo.StorageUsed(ctx, userID)
	if err != nil {
		return err
	}
	if used+sizeBytes > s.QuotaBytes {
		return ErrQuotaExceeded
	}
	return nil
}

// Register stores the rendered bytes and records the document with the next
// version number. If the ledger insert fails the stored object is removed so
// storage and ledger do not drift.
func (s *Service) Register(ctx context.Context, in RegisterInput) (GeneratedDocument, error) {
	if in.UserID == "" || len(in.Bytes) == 0 {
		return GeneratedDocument{}, fmt.Errorf("%w: missing user or payload", ErrInvalidInput)
	}

	id := uuid.NewString()
	fileName := id + formatExtension(in.Format)
	key, size, _, err := s.Store.Save(ctx, in.UserID, fileName, bytes.NewReader(in.Bytes))
	if err != nil {
		return GeneratedDocument{}, fmt.Errorf("store document: %w", err)
	}

	doc := GeneratedDocument{
		ID:         id,
		UserID:     in.UserID,
		ProfileID:  in.ProfileID,
		TemplateID: in.TemplateID,
		JobID:      in.JobID,
		Label:      in.Label,
		Format:     in.Format,
		StorageKey: key,
		SizeBytes:  size,
		Checksum:   util.Checksum(in.Bytes),
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.Repo.CreateWithVersion(ctx, doc, s.QuotaBytes)
	if err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("documents.register.orphaned_object", map[string]any{
				"storage_key": key,
				"error":       delErr.Error(),
			})
		}
		return GeneratedDocument{}, err
	}
	return created, nil
}

// List returns the user's live documents newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]GeneratedDocument, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Get returns a single live document with ownership enforced.
func (s *Service) Get(ctx context.Context, userID, documentID string) (GeneratedDocument, error) {
	return s.Repo.GetByID(ctx, userID, documentID)
}

// GetAny looks a document up regardless of owner; used by token downloads.
func (s *Service) GetAny(ctx context.Context, documentID string) (GeneratedDocument, error) {
	return s.Repo.GetAny(ctx, documentID)
}

// Open streams the stored bytes for a document.
func (s *Service) Open(ctx context.Context, doc GeneratedDocument) (io.ReadCloser, error) {
	return s.Store.Open(ctx, doc.StorageKey)
}

// SetDefault marks the document as the user's default CV.
func (s *Service) SetDefault(ctx context.Context, userID, documentID string) error {
	return s.Repo.SetDefault(ctx, userID, documentID)
}

// Delete soft-deletes the ledger row and removes the stored object. A
// failed object removal is logged, not surfaced: the row is already gone
// and the quota no longer counts it.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.SoftDelete(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("documents.delete.object_remove_failed", map[string]any{
			"document_id": documentID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func formatExtension(format string) string {
	switch strings.ToLower(format) {
	case "pdf":
		return ".pdf"
	case "html":
		return ".html"
	case "image", "png":
		return ".png"
	default:
		return ".bin"
	}
}

// ContentType maps a document format to its download media type.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "pdf":
		return "application/pdf"
	case "html":
		return "text/html; charset=utf-8"
	case "image", "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
