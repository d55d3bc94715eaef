package gendocs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo. A single mutex covers
// all users; the version counter and default flag therefore get the same
// serialization the PG implementation provides per user transactionally.
type MemoryRepo struct {
	mu       sync.Mutex
	docs     map[string]GeneratedDocument // documentId -> document
	versions map[string]int               // userId -> last assigned version
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		docs:     make(map[string]GeneratedDocument),
		versions: make(map[string]int),
	}
}

// CreateWithVersion reserves the next version and inserts under one lock.
func (r *MemoryRepo) CreateWithVersion(ctx context.Context, doc GeneratedDocument, quotaBytes int64) (GeneratedDocument, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedDocument{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if quotaBytes > 0 {
		used := r.storageUsedLocked(doc.UserID)
		if used+doc.SizeBytes > quotaBytes {
			return GeneratedDocument{}, ErrQuotaExceeded
		}
	}

	r.versions[doc.UserID]++
	doc.Version = r.versions[doc.UserID]
	r.docs[doc.ID] = doc
	return doc, nil
}

// SetDefault swaps the default flag under one lock.
func (r *MemoryRepo) SetDefault(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.docs[documentID]
	if !ok || target.DeletedAt != nil {
		return ErrNotFound
	}
	if target.UserID != userID {
		return ErrForbidden
	}

	for id, doc := range r.docs {
		if doc.UserID != userID || doc.DeletedAt != nil {
			continue
		}
		doc.IsDefault = id == documentID
		r.docs[id] = doc
	}
	return nil
}

// GetByID returns a live document, enforcing ownership.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (GeneratedDocument, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedDocument{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok || doc.DeletedAt != nil {
		return GeneratedDocument{}, ErrNotFound
	}
	if doc.UserID != userID {
		return GeneratedDocument{}, ErrForbidden
	}
	return doc, nil
}

// GetAny returns a live document without an ownership scope.
func (r *MemoryRepo) GetAny(ctx context.Context, documentID string) (GeneratedDocument, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedDocument{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok || doc.DeletedAt != nil {
		return GeneratedDocument{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser returns live documents newest-first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]GeneratedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.Lock()
	var docs []GeneratedDocument
	for _, doc := range r.docs {
		if doc.UserID == userID && doc.DeletedAt == nil {
			docs = append(docs, doc)
		}
	}
	r.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Version > docs[j].Version
	})

	if offset >= len(docs) {
		return []GeneratedDocument{}, nil
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

// SoftDelete marks the document deleted and returns it.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, documentID string) (GeneratedDocument, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedDocument{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok || doc.DeletedAt != nil {
		return GeneratedDocument{}, ErrNotFound
	}
	if doc.UserID != userID {
		return GeneratedDocument{}, ErrForbidden
	}

	now := time.Now().UTC()
	doc.DeletedAt = &now
	doc.IsDefault = false
	r.docs[documentID] = doc
	return doc, nil
}

// StorageUsed sums live document sizes for a user.
func (r *MemoryRepo) StorageUsed(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storageUsedLocked(userID), nil
}

func (r *MemoryRepo) storageUsedLocked(userID string) int64 {
	var used int64
	for _, doc := range r.docs {
		if doc.UserID == userID && doc.DeletedAt == nil {
			used += doc.SizeBytes
		}
	}
	return used
}

var _ Repo = (*MemoryRepo)(nil)
