package genjobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu   sync.Mutex
	jobs map[string]GenerationJob
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]GenerationJob)}
}

func (r *MemoryRepo) Create(_ context.Context, job GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, jobID string) (GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return GenerationJob{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) ListByBatch(_ context.Context, userID, batchID string) ([]GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []GenerationJob
	for _, job := range r.jobs {
		if job.BatchID == batchID && job.UserID == userID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Claim(_ context.Context, jobID string) (GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return GenerationJob{}, ErrNotFound
	}
	if !canTransition(job.Status, StatusProcessing) {
		return GenerationJob{}, ErrNotClaimable
	}
	job.Status = StatusProcessing
	job.UpdatedAt = time.Now().UTC()
	r.jobs[jobID] = job
	return job, nil
}

func (r *MemoryRepo) UpdateProgress(_ context.Context, jobID string, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if job.Status != StatusProcessing || progress <= job.Progress {
		return nil
	}
	if progress > 100 {
		progress = 100
	}
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC()
	r.jobs[jobID] = job
	return nil
}

func (r *MemoryRepo) MarkCompleted(_ context.Context, jobID, documentID string) error {
	return r.finish(jobID, StatusCompleted, func(job *GenerationJob) {
		job.DocumentID = documentID
		job.Progress = 100
	})
}

func (r *MemoryRepo) MarkFailed(_ context.Context, jobID, message string) error {
	if message == "" {
		message = "generation failed"
	}
	return r.finish(jobID, StatusFailed, func(job *GenerationJob) {
		job.Error = message
	})
}

func (r *MemoryRepo) MarkCancelled(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if !canTransition(job.Status, StatusCancelled) {
		return ErrNotCancellable
	}
	now := time.Now().UTC()
	job.Status = StatusCancelled
	job.UpdatedAt = now
	job.CompletedAt = &now
	r.jobs[jobID] = job
	return nil
}

func (r *MemoryRepo) ListPending(_ context.Context, limit int) ([]GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []GenerationJob
	for _, job := range r.jobs {
		if job.Status == StatusPending {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) finish(jobID, status string, apply func(*GenerationJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if !canTransition(job.Status, status) {
		return ErrNotClaimable
	}
	apply(&job)
	now := time.Now().UTC()
	job.Status = status
	job.UpdatedAt = now
	job.CompletedAt = &now
	r.jobs[jobID] = job
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
