package genjobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/markup"
	"cvgen-backend/internal/profiles"
	"cvgen-backend/internal/projector"
	"cvgen-backend/internal/templates"
)

const maxBatchVariants = 10

// Enqueuer hands accepted jobs to the worker pool and signals best-effort
// cancellation of running ones.
type Enqueuer interface {
	Enqueue(jobID string)
	CancelRunning(jobID string) bool
}

// Service validates and records generation requests. Execution happens in
// the dispatcher; submission only ever blocks on the pending row insert.
type Service struct {
	Repo       Repo
	Profiles   profiles.Repo
	Templates  templates.Repo
	Documents  *gendocs.Service
	Dispatcher Enqueuer
}

func NewService(repo Repo, profileRepo profiles.Repo, templateRepo templates.Repo, docs *gendocs.Service, dispatcher Enqueuer) *Service {
	return &Service{
		Repo:       repo,
		Profiles:   profileRepo,
		Templates:  templateRepo,
		Documents:  docs,
		Dispatcher: dispatcher,
	}
}

// SubmitInput is one generation request.
type SubmitInput struct {
	ProfileID  string
	TemplateID string
	Options    projector.GenerationOptions
}

// Submit validates the request and creates a pending job. Template, option,
// and quota problems are rejected here, before any job row exists.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (GenerationJob, error) {
	if err := s.validate(ctx, userID, in); err != nil {
		return GenerationJob{}, err
	}
	return s.createAndEnqueue(ctx, userID, "", in)
}

// SubmitBatch creates one job per variant under a shared batch id. All
// variants are validated up front; a batch with any invalid variant is
// rejected whole, since the caller could not tell which jobs were accepted
// from a partial synchronous error. Once accepted, each job's outcome is
// independent.
func (s *Service) SubmitBatch(ctx context.Context, userID, profileID string, variants []SubmitInput) (string, []GenerationJob, error) {
	if len(variants) == 0 {
		return "", nil, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}
	if len(variants) > maxBatchVariants {
		return "", nil, fmt.Errorf("%w: batch exceeds %d variants", ErrInvalidInput, maxBatchVariants)
	}

	for i := range variants {
		variants[i].ProfileID = profileID
		if err := s.validate(ctx, userID, variants[i]); err != nil {
			return "", nil, fmt.Errorf("variant %d: %w", i, err)
		}
	}

	batchID := uuid.NewString()
	jobs := make([]GenerationJob, 0, len(variants))
	for _, v := range variants {
		job, err := s.createAndEnqueue(ctx, userID, batchID, v)
		if err != nil {
			return "", nil, err
		}
		jobs = append(jobs, job)
	}
	return batchID, jobs, nil
}

// Preview projects and renders markup synchronously. No job or document is
// created; the markup goes straight back to the caller.
func (s *Service) Preview(ctx context.Context, userID string, in SubmitInput) (string, error) {
	profile, err := s.Profiles.GetByID(ctx, userID, in.ProfileID)
	if err != nil {
		return "", err
	}
	tmpl, err := s.Templates.GetByID(ctx, in.TemplateID)
	if err != nil {
		return "", err
	}
	if !in.Options.ValidFormat() {
		return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, in.Options.Format)
	}

	renderCtx := projector.Project(profile, in.Options)
	return markup.Render(tmpl, renderCtx)
}

// Poll returns the job's current state, ownership enforced.
func (s *Service) Poll(ctx context.Context, userID, jobID string) (GenerationJob, error) {
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return GenerationJob{}, err
	}
	if job.UserID != userID {
		return GenerationJob{}, ErrForbidden
	}
	return job, nil
}

// PollBatch returns every job in the user's batch.
func (s *Service) PollBatch(ctx context.Context, userID, batchID string) ([]GenerationJob, error) {
	jobs, err := s.Repo.ListByBatch(ctx, userID, batchID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrNotFound
	}
	return jobs, nil
}

// Cancel stops a job. Pending jobs are cancelled outright; processing jobs
// get a best-effort abort signal to the in-flight render. Cancellation is a
// distinct terminal status, never a rollback.
func (s *Service) Cancel(ctx context.Context, userID, jobID string) error {
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.UserID != userID {
		return ErrForbidden
	}
	if Terminal(job.Status) {
		return ErrNotCancellable
	}

	if err := s.Repo.MarkCancelled(ctx, jobID); err != nil {
		return err
	}
	if s.Dispatcher != nil {
		s.Dispatcher.CancelRunning(jobID)
	}
	return nil
}

func (s *Service) validate(ctx context.Context, userID string, in SubmitInput) error {
	if in.ProfileID == "" || in.TemplateID == "" {
		return fmt.Errorf("%w: profileId and templateId are required", ErrInvalidInput)
	}
	if !in.Options.ValidFormat() {
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, in.Options.Format)
	}
	if _, err := s.Profiles.GetByID(ctx, userID, in.ProfileID); err != nil {
		return err
	}
	if _, err := s.Templates.GetByID(ctx, in.TemplateID); err != nil {
		return err
	}
	// Advisory: the ledger re-checks atomically with the real size at
	// registration. A declared output cap is the best available size
	// bound before rendering; without one, only a full quota rejects.
	incoming := int64(1)
	if in.Options.MaxOutputBytes > 0 {
		incoming = in.Options.MaxOutputBytes
	}
	return s.Documents.CheckQuota(ctx, userID, incoming)
}

func (s *Service) createAndEnqueue(ctx context.Context, userID, batchID string, in SubmitInput) (GenerationJob, error) {
	now := time.Now().UTC()
	job := GenerationJob{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProfileID:  in.ProfileID,
		TemplateID: in.TemplateID,
		BatchID:    batchID,
		Options:    in.Options,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return GenerationJob{}, fmt.Errorf("create job: %w", err)
	}
	if s.Dispatcher != nil {
		s.Dispatcher.Enqueue(job.ID)
	}
	return job, nil
}
