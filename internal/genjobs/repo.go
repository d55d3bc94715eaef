package genjobs

import "context"

// Repo defines persistence for generation jobs. All status mutations are
// guarded by the current status so workers, cancellation, and requeue
// sweeps can race without ever moving a job backward.
type Repo interface {
	Create(ctx context.Context, job GenerationJob) error
	GetByID(ctx context.Context, jobID string) (GenerationJob, error)
	ListByBatch(ctx context.Context, userID, batchID string) ([]GenerationJob, error)

	// Claim moves a pending job to processing. Returns ErrNotClaimable if
	// the job is not pending; a job enqueued twice is only executed once.
	Claim(ctx context.Context, jobID string) (GenerationJob, error)

	// UpdateProgress raises progress while the job is processing. Lower
	// values are ignored so observed progress never decreases.
	UpdateProgress(ctx context.Context, jobID string, progress int) error

	// MarkCompleted finishes a processing job with its document reference
	// and progress 100.
	MarkCompleted(ctx context.Context, jobID, documentID string) error

	// MarkFailed finishes a processing job with a non-empty error message.
	MarkFailed(ctx context.Context, jobID, message string) error

	// MarkCancelled moves a live job to cancelled. Returns ErrNotCancellable
	// if the job already reached a terminal state.
	MarkCancelled(ctx context.Context, jobID string) error

	// ListPending returns up to limit pending jobs oldest-first, for the
	// dispatcher's requeue sweep after restarts or a saturated queue.
	ListPending(ctx context.Context, limit int) ([]GenerationJob, error)
}
