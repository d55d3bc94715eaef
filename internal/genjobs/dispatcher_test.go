package genjobs

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"cvgen-backend/internal/docrender"
	"cvgen-backend/internal/templates"
)

// newDispatcherFixture wires a dispatcher against in-memory repos. Jobs use
// the html format, which renders without an engine, so the pipeline runs end
// to end in tests.
func newDispatcherFixture(t *testing.T) (*Dispatcher, *fixture) {
	t.Helper()

	f := newFixture(t, 0)
	pool := docrender.NewEnginePool(1, "")
	t.Cleanup(pool.Close)

	d := NewDispatcher(
		f.jobs,
		f.profiles,
		f.templates,
		&docrender.Renderer{Pool: pool, CheckoutTimeout: 20 * time.Millisecond, RenderTimeout: time.Second},
		f.docs,
		2,
		2,
		10*time.Millisecond,
	)
	f.service.Dispatcher = d
	return d, f
}

// withBrokenTemplate hides one template id behind ErrTemplateNotFound.
type withBrokenTemplate struct {
	templates.Repo
	broken string
}

func (w withBrokenTemplate) GetByID(ctx context.Context, templateID string) (templates.Template, error) {
	if templateID == w.broken {
		return templates.Template{}, templates.ErrTemplateNotFound
	}
	return w.Repo.GetByID(ctx, templateID)
}

func TestDispatcherCompletesJob(t *testing.T) {
	d, f := newDispatcherFixture(t)
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "u1", htmlSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	d.run(ctx, job.ID)

	done, err := f.service.Poll(ctx, "u1", job.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", done.Status, done.Error)
	}
	if done.Progress != 100 || done.DocumentID == "" {
		t.Fatalf("completed job must carry progress 100 and a document: %+v", done)
	}

	doc, err := f.docs.Get(ctx, "u1", done.DocumentID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Version != 1 || doc.JobID != job.ID || doc.Format != "html" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	body, err := f.docs.Open(ctx, doc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, body); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(buf.String(), "Jane Doe") {
		t.Fatalf("stored markup should contain the profile name")
	}
}

func TestDispatcherBatchOutcomesAreIndependent(t *testing.T) {
	d, f := newDispatcherFixture(t)
	ctx := context.Background()

	variants := []SubmitInput{
		{TemplateID: "classic", Options: sampleOptions()},
		{TemplateID: "modern", Options: sampleOptions()},
		{TemplateID: "compact", Options: sampleOptions()},
	}
	batchID, jobs, err := f.service.SubmitBatch(ctx, "u1", "p1", variants)
	if err != nil {
		t.Fatalf("submit batch: %v", err)
	}

	// Sabotage the middle job after acceptance: its template disappears.
	d.Templates = withBrokenTemplate{Repo: f.templates, broken: "modern"}

	for _, job := range jobs {
		d.run(ctx, job.ID)
	}

	results, err := f.service.PollBatch(ctx, "u1", batchID)
	if err != nil {
		t.Fatalf("poll batch: %v", err)
	}

	statuses := map[string]string{}
	for _, job := range results {
		statuses[job.TemplateID] = job.Status
	}
	if statuses["classic"] != StatusCompleted || statuses["compact"] != StatusCompleted {
		t.Fatalf("sibling jobs must complete: %+v", statuses)
	}
	if statuses["modern"] != StatusFailed {
		t.Fatalf("broken job must fail alone: %+v", statuses)
	}

	for _, job := range results {
		if job.Status == StatusFailed && job.Error == "" {
			t.Fatalf("failed job must carry an error message")
		}
	}
}

func TestDispatcherRetriesPoolExhaustionThenFails(t *testing.T) {
	d, f := newDispatcherFixture(t)
	ctx := context.Background()

	var backoffs []time.Duration
	d.sleep = func(_ context.Context, dur time.Duration) error {
		backoffs = append(backoffs, dur)
		return nil
	}

	// Occupy the only engine lease so every pdf checkout times out.
	lease, err := d.Renderer.Pool.Checkout(ctx)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	defer d.Renderer.Pool.Release(lease)

	in := htmlSubmit()
	in.Options.Format = "pdf"
	job, err := f.service.Submit(ctx, "u1", in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	d.run(ctx, job.ID)

	done, _ := f.service.Poll(ctx, "u1", job.ID)
	if done.Status != StatusFailed || done.Error == "" {
		t.Fatalf("expected failed with message, got %+v", done)
	}
	if len(backoffs) != d.RetryMax {
		t.Fatalf("expected %d retries, got %d", d.RetryMax, len(backoffs))
	}
	for i := 1; i < len(backoffs); i++ {
		if backoffs[i] <= backoffs[i-1] {
			t.Fatalf("backoff must increase: %v", backoffs)
		}
	}
}

func TestDispatcherSkipsCancelledJob(t *testing.T) {
	d, f := newDispatcherFixture(t)
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "u1", htmlSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.service.Cancel(ctx, "u1", job.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	d.run(ctx, job.ID)

	done, _ := f.service.Poll(ctx, "u1", job.ID)
	if done.Status != StatusCancelled {
		t.Fatalf("cancelled job must stay cancelled, got %s", done.Status)
	}
	docs, _ := f.docs.List(ctx, "u1", 0, 0)
	if len(docs) != 0 {
		t.Fatalf("cancelled job must not produce a document")
	}
}

func TestDispatcherAssignsSequentialVersions(t *testing.T) {
	d, f := newDispatcherFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		job, err := f.service.Submit(ctx, "u1", htmlSubmit())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		d.run(ctx, job.ID)
	}

	docs, err := f.docs.List(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, doc := range docs {
		want := 3 - i
		if doc.Version != want {
			t.Fatalf("expected version %d at position %d, got %d", want, i, doc.Version)
		}
	}
}
