package gendocs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Version reservation and the quota
// check ride the same transaction as the insert: the counter-row upsert takes
// a row lock per user, which serializes concurrent completions.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `
id, user_id, profile_id, template_id, job_id, version, label, is_default,
format, storage_key, size_bytes, checksum, created_at, deleted_at`

// CreateWithVersion reserves the next version, re-checks quota, and inserts.
func (r *PGRepo) CreateWithVersion(ctx context.Context, doc GeneratedDocument, quotaBytes int64) (GeneratedDocument, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return GeneratedDocument{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const reserveVersion = `
INSERT INTO document_version_counters (user_id, last_version)
VALUES ($1, 1)
ON CONFLICT (user_id) DO UPDATE SET last_version = document_version_counters.last_version + 1
RETURNING last_version`
	if err := tx.QueryRowContext(ctx, reserveVersion, doc.UserID).Scan(&doc.Version); err != nil {
		return GeneratedDocument{}, fmt.Errorf("reserve version: %w", err)
	}

	if quotaBytes > 0 {
		const sumLive = `
SELECT COALESCE(SUM(size_bytes), 0)
FROM generated_documents
WHERE user_id = $1 AND deleted_at IS NULL`
		var used int64
		if err := tx.QueryRowContext(ctx, sumLive, doc.UserID).Scan(&used); err != nil {
			return GeneratedDocument{}, fmt.Errorf("sum storage: %w", err)
		}
		if used+doc.SizeBytes > quotaBytes {
			return GeneratedDocument{}, ErrQuotaExceeded
		}
	}

	const insert = `
INSERT INTO generated_documents (
    id, user_id, profile_id, template_id, job_id, version, label, is_default,
    format, storage_key, size_bytes, checksum, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := tx.ExecContext(ctx, insert,
		doc.ID,
		doc.UserID,
		doc.ProfileID,
		doc.TemplateID,
		nullString(doc.JobID),
		doc.Version,
		doc.Label,
		false,
		doc.Format,
		doc.StorageKey,
		doc.SizeBytes,
		doc.Checksum,
		doc.CreatedAt,
	); err != nil {
		return GeneratedDocument{}, fmt.Errorf("insert document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return GeneratedDocument{}, fmt.Errorf("commit: %w", err)
	}
	doc.IsDefault = false
	return doc, nil
}

// SetDefault swaps the default flag in one statement after an ownership
// check inside the same transaction. The partial unique index on
// (user_id) WHERE is_default backs the invariant at the schema level.
func (r *PGRepo) SetDefault(ctx context.Context, userID, documentID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const lockTarget = `
SELECT user_id
FROM generated_documents
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE`
	var owner string
	if err := tx.QueryRowContext(ctx, lockTarget, documentID).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if owner != userID {
		return ErrForbidden
	}

	const swap = `
UPDATE generated_documents
SET is_default = (id = $2)
WHERE user_id = $1 AND deleted_at IS NULL AND is_default IS DISTINCT FROM (id = $2)`
	if _, err := tx.ExecContext(ctx, swap, userID, documentID); err != nil {
		return fmt.Errorf("swap default: %w", err)
	}

	return tx.Commit()
}

// GetByID returns a live document, enforcing ownership.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (GeneratedDocument, error) {
	doc, err := r.GetAny(ctx, documentID)
	if err != nil {
		return GeneratedDocument{}, err
	}
	if doc.UserID != userID {
		return GeneratedDocument{}, ErrForbidden
	}
	return doc, nil
}

// GetAny returns a live document without an ownership scope.
func (r *PGRepo) GetAny(ctx context.Context, documentID string) (GeneratedDocument, error) {
	query := `
SELECT ` + docColumns + `
FROM generated_documents
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	doc, err := scanDoc(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GeneratedDocument{}, ErrNotFound
		}
		return GeneratedDocument{}, err
	}
	return doc, nil
}

// ListByUser returns live documents newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]GeneratedDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + docColumns + `
FROM generated_documents
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY version DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GeneratedDocument
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SoftDelete marks the document deleted and returns it.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, documentID string) (GeneratedDocument, error) {
	query := `
UPDATE generated_documents
SET deleted_at = now(), is_default = FALSE
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + docColumns
	doc, err := scanDoc(r.DB.QueryRowContext(ctx, query, documentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish missing from foreign so handlers can 403.
			var owner string
			probe := r.DB.QueryRowContext(ctx,
				`SELECT user_id FROM generated_documents WHERE id = $1 AND deleted_at IS NULL`, documentID)
			if probeErr := probe.Scan(&owner); probeErr == nil && owner != userID {
				return GeneratedDocument{}, ErrForbidden
			}
			return GeneratedDocument{}, ErrNotFound
		}
		return GeneratedDocument{}, err
	}
	return doc, nil
}

// StorageUsed sums live document sizes for a user.
func (r *PGRepo) StorageUsed(ctx context.Context, userID string) (int64, error) {
	const query = `
SELECT COALESCE(SUM(size_bytes), 0)
FROM generated_documents
WHERE user_id = $1 AND deleted_at IS NULL`
	var used int64
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&used); err != nil {
		return 0, err
	}
	return used, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (GeneratedDocument, error) {
	var (
		doc   GeneratedDocument
		jobID sql.NullString
	)
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.ProfileID,
		&doc.TemplateID,
		&jobID,
		&doc.Version,
		&doc.Label,
		&doc.IsDefault,
		&doc.Format,
		&doc.StorageKey,
		&doc.SizeBytes,
		&doc.Checksum,
		&doc.CreatedAt,
		&doc.DeletedAt,
	); err != nil {
		return GeneratedDocument{}, err
	}
	doc.JobID = jobID.String
	return doc, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
