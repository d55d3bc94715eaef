package genjobs

import "errors"

var (
	// ErrNotFound indicates no job with that id exists.
	ErrNotFound = errors.New("job not found")

	// ErrForbidden indicates the job belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates the submission payload failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotClaimable indicates the job is no longer pending, so a worker
	// must not start it. Cancellation between enqueue and claim lands here.
	ErrNotClaimable = errors.New("job not claimable")

	// ErrNotCancellable indicates the job already reached a terminal state.
	ErrNotCancellable = errors.New("job not cancellable")
)
