package genjobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/profiles"
	"cvgen-backend/internal/projector"
	localstore "cvgen-backend/internal/shared/storage/object/local"
	"cvgen-backend/internal/templates"
)

type fixture struct {
	service   *Service
	jobs      *MemoryRepo
	profiles  *profiles.MemoryRepo
	templates templates.Repo
	docs      *gendocs.Service
}

func newFixture(t *testing.T, quota int64) *fixture {
	t.Helper()

	jobRepo := NewMemoryRepo()
	profileRepo := profiles.NewMemoryRepo()
	templateRepo := templates.NewMemoryRepo()
	docs := gendocs.NewService(gendocs.NewMemoryRepo(), localstore.New(t.TempDir()), quota)

	if err := profileRepo.Put(context.Background(), profiles.Profile{
		ID:       "p1",
		UserID:   "u1",
		FullName: "Jane Doe",
		Headline: "Engineer",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	return &fixture{
		service:   NewService(jobRepo, profileRepo, templateRepo, docs, nil),
		jobs:      jobRepo,
		profiles:  profileRepo,
		templates: templateRepo,
		docs:      docs,
	}
}

func htmlSubmit() SubmitInput {
	return SubmitInput{
		ProfileID:  "p1",
		TemplateID: "classic",
		Options:    sampleOptions(),
	}
}

func sampleOptions() projector.GenerationOptions {
	return projector.GenerationOptions{
		Format:   "html",
		Sections: projector.AllSections(),
	}
}

func TestSubmitCreatesPendingJob(t *testing.T) {
	f := newFixture(t, 0)

	job, err := f.service.Submit(context.Background(), "u1", htmlSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.Status != StatusPending || job.ID == "" {
		t.Fatalf("expected pending job with id, got %+v", job)
	}

	polled, err := f.service.Poll(context.Background(), "u1", job.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if polled.Status != StatusPending || polled.Progress != 0 {
		t.Fatalf("unexpected polled state: %+v", polled)
	}
}

func TestSubmitRejectsUnknownTemplate(t *testing.T) {
	f := newFixture(t, 0)

	in := htmlSubmit()
	in.TemplateID = "missing"
	_, err := f.service.Submit(context.Background(), "u1", in)
	if !errors.Is(err, templates.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	// No job row may exist for a rejected submission.
	pending, _ := f.jobs.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("rejected submission must not create a job, found %d", len(pending))
	}
}

func TestSubmitRejectsUnknownProfile(t *testing.T) {
	f := newFixture(t, 0)

	in := htmlSubmit()
	in.ProfileID = "missing"
	if _, err := f.service.Submit(context.Background(), "u1", in); !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("expected profile ErrNotFound, got %v", err)
	}
}

func TestSubmitRejectsBadFormat(t *testing.T) {
	f := newFixture(t, 0)

	in := htmlSubmit()
	in.Options.Format = "docx"
	if _, err := f.service.Submit(context.Background(), "u1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitRejectsWhenQuotaFull(t *testing.T) {
	f := newFixture(t, 50)

	// Fill the quota.
	_, err := f.docs.Register(context.Background(), gendocs.RegisterInput{
		UserID:    "u1",
		ProfileID: "p1",
		Format:    "html",
		Bytes:     []byte(strings.Repeat("x", 50)),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = f.service.Submit(context.Background(), "u1", htmlSubmit())
	if !errors.Is(err, gendocs.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded at submission, got %v", err)
	}
	pending, _ := f.jobs.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("quota rejection must not create a job")
	}
}

func TestSubmitRejectsWhenDeclaredOutputExceedsQuota(t *testing.T) {
	f := newFixture(t, 100)

	// 95 of 100 bytes used; a declared 10-byte output cannot fit.
	_, err := f.docs.Register(context.Background(), gendocs.RegisterInput{
		UserID:    "u1",
		ProfileID: "p1",
		Format:    "html",
		Bytes:     []byte(strings.Repeat("x", 95)),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	in := htmlSubmit()
	in.Options.MaxOutputBytes = 10
	_, err = f.service.Submit(context.Background(), "u1", in)
	if !errors.Is(err, gendocs.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded at submission, got %v", err)
	}
	pending, _ := f.jobs.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("quota rejection must not create a job")
	}

	// A declared output that still fits is accepted.
	in.Options.MaxOutputBytes = 5
	if _, err := f.service.Submit(context.Background(), "u1", in); err != nil {
		t.Fatalf("submit within quota: %v", err)
	}
}

func TestSubmitBatchCreatesIndependentJobs(t *testing.T) {
	f := newFixture(t, 0)

	variants := []SubmitInput{
		{TemplateID: "classic", Options: sampleOptions()},
		{TemplateID: "modern", Options: sampleOptions()},
		{TemplateID: "compact", Options: sampleOptions()},
	}
	batchID, jobs, err := f.service.SubmitBatch(context.Background(), "u1", "p1", variants)
	if err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	if batchID == "" || len(jobs) != 3 {
		t.Fatalf("expected batch of 3, got %q / %d", batchID, len(jobs))
	}
	for _, job := range jobs {
		if job.BatchID != batchID {
			t.Fatalf("job %s missing batch id", job.ID)
		}
	}

	byBatch, err := f.service.PollBatch(context.Background(), "u1", batchID)
	if err != nil {
		t.Fatalf("poll batch: %v", err)
	}
	if len(byBatch) != 3 {
		t.Fatalf("expected 3 jobs in batch, got %d", len(byBatch))
	}
}

func TestSubmitBatchRejectsInvalidVariantWhole(t *testing.T) {
	f := newFixture(t, 0)

	variants := []SubmitInput{
		{TemplateID: "classic", Options: sampleOptions()},
		{TemplateID: "missing", Options: sampleOptions()},
	}
	if _, _, err := f.service.SubmitBatch(context.Background(), "u1", "p1", variants); err == nil {
		t.Fatalf("expected batch rejection")
	}

	pending, _ := f.jobs.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("rejected batch must create no jobs, found %d", len(pending))
	}
}

func TestPollEnforcesOwnership(t *testing.T) {
	f := newFixture(t, 0)

	job, err := f.service.Submit(context.Background(), "u1", htmlSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.service.Poll(context.Background(), "intruder", job.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPreviewReturnsMarkupWithoutJob(t *testing.T) {
	f := newFixture(t, 0)

	markup, err := f.service.Preview(context.Background(), "u1", htmlSubmit())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(markup, "Jane Doe") {
		t.Fatalf("preview markup should contain the profile name")
	}

	pending, _ := f.jobs.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("preview must not create a job")
	}
}

func TestCancelPendingJob(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "u1", htmlSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.service.Cancel(ctx, "u1", job.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	polled, _ := f.service.Poll(ctx, "u1", job.ID)
	if polled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", polled.Status)
	}

	// A cancelled job can never be claimed by a worker.
	if _, err := f.jobs.Claim(ctx, job.ID); !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("cancelled job must not be claimable, got %v", err)
	}

	// Cancelling again reports the terminal state.
	if err := f.service.Cancel(ctx, "u1", job.ID); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
}

func TestStatusNeverMovesBackward(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	job := GenerationJob{ID: "j1", UserID: "u1", Status: StatusPending, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Claim(ctx, "j1"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := repo.MarkCompleted(ctx, "j1", "doc-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Terminal states refuse every further transition.
	if _, err := repo.Claim(ctx, "j1"); !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("completed job reclaimed: %v", err)
	}
	if err := repo.MarkFailed(ctx, "j1", "boom"); !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("completed job marked failed: %v", err)
	}
	if err := repo.MarkCancelled(ctx, "j1"); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("completed job cancelled: %v", err)
	}

	got, _ := repo.GetByID(ctx, "j1")
	if got.Status != StatusCompleted || got.Progress != 100 || got.DocumentID != "doc-1" {
		t.Fatalf("terminal state corrupted: %+v", got)
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	repo.Create(ctx, GenerationJob{ID: "j1", Status: StatusPending, CreatedAt: time.Now().UTC()})
	repo.Claim(ctx, "j1")

	repo.UpdateProgress(ctx, "j1", 40)
	repo.UpdateProgress(ctx, "j1", 10)

	got, _ := repo.GetByID(ctx, "j1")
	if got.Progress != 40 {
		t.Fatalf("progress regressed: %d", got.Progress)
	}
}

func TestFailedJobAlwaysHasMessage(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	repo.Create(ctx, GenerationJob{ID: "j1", Status: StatusPending, CreatedAt: time.Now().UTC()})
	repo.Claim(ctx, "j1")
	repo.MarkFailed(ctx, "j1", "")

	got, _ := repo.GetByID(ctx, "j1")
	if got.Status != StatusFailed || got.Error == "" {
		t.Fatalf("failed job must carry a non-empty error, got %+v", got)
	}
}
