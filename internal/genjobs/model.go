package genjobs

import (
	"time"

	"cvgen-backend/internal/projector"
)

// Job statuses. pending and processing are live; the rest are terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// GenerationJob tracks one asynchronous CV generation. The options payload
// is frozen at submission; only the worker executing the job mutates it
// afterward.
type GenerationJob struct {
	ID          string
	UserID      string
	ProfileID   string
	TemplateID  string
	BatchID     string // shared by jobs submitted in one batch
	Options     projector.GenerationOptions
	Status      string
	Progress    int
	DocumentID  string // set only on completed
	Error       string // set only on failed
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// canTransition encodes the status machine: pending → processing →
// {completed, failed}; cancellation may interrupt either live state.
// No transition re-enters an earlier state.
func canTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed || to == StatusCancelled
	}
	return false
}
