package genjobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cvgen-backend/internal/projector"
)

// PGRepo implements Repo on Postgres. Status transitions are guarded in the
// WHERE clause of each UPDATE; a zero-row update means the guard lost a race.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `
id, user_id, profile_id, template_id, batch_id, options, status, progress,
document_id, error, created_at, updated_at, completed_at`

func (r *PGRepo) Create(ctx context.Context, job GenerationJob) error {
	opts, err := json.Marshal(job.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	const query = `
INSERT INTO generation_jobs (
    id, user_id, profile_id, template_id, batch_id, options, status, progress, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.ProfileID,
		job.TemplateID,
		nullString(job.BatchID),
		opts,
		job.Status,
		job.Progress,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, jobID string) (GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GenerationJob{}, ErrNotFound
		}
		return GenerationJob{}, err
	}
	return job, nil
}

func (r *PGRepo) ListByBatch(ctx context.Context, userID, batchID string) ([]GenerationJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM generation_jobs
WHERE batch_id = $1 AND user_id = $2
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, batchID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Claim(ctx context.Context, jobID string) (GenerationJob, error) {
	query := `
UPDATE generation_jobs
SET status = 'processing', updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING ` + jobColumns
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GenerationJob{}, ErrNotClaimable
		}
		return GenerationJob{}, err
	}
	return job, nil
}

func (r *PGRepo) UpdateProgress(ctx context.Context, jobID string, progress int) error {
	const query = `
UPDATE generation_jobs
SET progress = LEAST(GREATEST(progress, $2), 100), updated_at = now()
WHERE id = $1 AND status = 'processing'`
	_, err := r.DB.ExecContext(ctx, query, jobID, progress)
	return err
}

func (r *PGRepo) MarkCompleted(ctx context.Context, jobID, documentID string) error {
	const query = `
UPDATE generation_jobs
SET status = 'completed', progress = 100, document_id = $2,
    updated_at = now(), completed_at = now()
WHERE id = $1 AND status = 'processing'`
	return r.execGuarded(ctx, query, jobID, documentID)
}

func (r *PGRepo) MarkFailed(ctx context.Context, jobID, message string) error {
	if message == "" {
		message = "generation failed"
	}
	const query = `
UPDATE generation_jobs
SET status = 'failed', error = $2, updated_at = now(), completed_at = now()
WHERE id = $1 AND status = 'processing'`
	return r.execGuarded(ctx, query, jobID, message)
}

func (r *PGRepo) MarkCancelled(ctx context.Context, jobID string) error {
	const query = `
UPDATE generation_jobs
SET status = 'cancelled', updated_at = now(), completed_at = now()
WHERE id = $1 AND status IN ('pending', 'processing')`
	res, err := r.DB.ExecContext(ctx, query, jobID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotCancellable
	}
	return nil
}

func (r *PGRepo) ListPending(ctx context.Context, limit int) ([]GenerationJob, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
SELECT ` + jobColumns + `
FROM generation_jobs
WHERE status = 'pending'
ORDER BY created_at
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) execGuarded(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotClaimable
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (GenerationJob, error) {
	var (
		job        GenerationJob
		batchID    sql.NullString
		documentID sql.NullString
		errMsg     sql.NullString
		rawOpts    []byte
	)
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.ProfileID,
		&job.TemplateID,
		&batchID,
		&rawOpts,
		&job.Status,
		&job.Progress,
		&documentID,
		&errMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	); err != nil {
		return GenerationJob{}, err
	}
	job.BatchID = batchID.String
	job.DocumentID = documentID.String
	job.Error = errMsg.String

	var opts projector.GenerationOptions
	if len(rawOpts) > 0 {
		if err := json.Unmarshal(rawOpts, &opts); err != nil {
			return GenerationJob{}, fmt.Errorf("unmarshal options: %w", err)
		}
	}
	job.Options = opts
	return job, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
