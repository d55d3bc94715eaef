package genjobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"cvgen-backend/internal/docrender"
	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/markup"
	"cvgen-backend/internal/profiles"
	"cvgen-backend/internal/projector"
	"cvgen-backend/internal/shared/telemetry"
	"cvgen-backend/internal/templates"
)

const (
	queueCapacity   = 256
	requeueInterval = 15 * time.Second
)

// Dispatcher runs accepted jobs on a bounded worker pool. Each worker walks
// the pipeline project → render markup → render document → store → register
// version, reporting progress along the way.
type Dispatcher struct {
	Repo         Repo
	Profiles     profiles.Repo
	Templates    templates.Repo
	Renderer     *docrender.Renderer
	Documents    *gendocs.Service
	Workers      int
	RetryMax     int
	RetryBackoff time.Duration

	queue chan string

	mu      sync.Mutex
	running map[string]context.CancelFunc

	sleep func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(repo Repo, profileRepo profiles.Repo, templateRepo templates.Repo, renderer *docrender.Renderer, docs *gendocs.Service, workers, retryMax int, retryBackoff time.Duration) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if retryBackoff <= 0 {
		retryBackoff = 500 * time.Millisecond
	}
	return &Dispatcher{
		Repo:         repo,
		Profiles:     profileRepo,
		Templates:    templateRepo,
		Renderer:     renderer,
		Documents:    docs,
		Workers:      workers,
		RetryMax:     retryMax,
		RetryBackoff: retryBackoff,
		queue:        make(chan string, queueCapacity),
		running:      make(map[string]context.CancelFunc),
		sleep:        sleepCtx,
	}
}

// Start launches the workers and the pending-job sweep and blocks until ctx
// is cancelled and the workers drain.
func (d *Dispatcher) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < d.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID := <-d.queue:
					d.run(ctx, jobID)
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.sweepPending(ctx)
	}()

	wg.Wait()
}

// Enqueue hands a job id to the workers without blocking. A saturated
// queue is fine: the job stays pending and the sweep picks it up.
func (d *Dispatcher) Enqueue(jobID string) {
	select {
	case d.queue <- jobID:
	default:
		telemetry.Warn("worker.queue.saturated", map[string]any{"job_id": jobID})
	}
}

// CancelRunning aborts the in-flight render for a job, if one is running.
func (d *Dispatcher) CancelRunning(jobID string) bool {
	d.mu.Lock()
	cancel, ok := d.running[jobID]
	d.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// sweepPending re-enqueues pending jobs on an interval. It covers restarts
// and queue overflow; the claim guard makes double enqueues harmless.
func (d *Dispatcher) sweepPending(ctx context.Context) {
	ticker := time.NewTicker(requeueInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jobs, err := d.Repo.ListPending(ctx, queueCapacity)
			if err != nil {
				telemetry.Warn("worker.sweep.failed", map[string]any{"error": err.Error()})
				continue
			}
			for _, job := range jobs {
				d.Enqueue(job.ID)
			}
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, jobID string) {
	job, err := d.Repo.Claim(ctx, jobID)
	if err != nil {
		if !errors.Is(err, ErrNotClaimable) {
			telemetry.Error("worker.job.claim_failed", map[string]any{"job_id": jobID, "error": err.Error()})
		}
		return
	}

	jobCtx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.running[job.ID] = cancel
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.running, job.ID)
		d.mu.Unlock()
		cancel()
	}()

	telemetry.Info("worker.job.started", map[string]any{
		"job_id":      job.ID,
		"user_id":     job.UserID,
		"template_id": job.TemplateID,
	})

	if err := d.execute(jobCtx, job); err != nil {
		d.finishWithError(ctx, job.ID, jobCtx, err)
	}
}

func (d *Dispatcher) execute(ctx context.Context, job GenerationJob) error {
	profile, err := d.Profiles.GetByID(ctx, job.UserID, job.ProfileID)
	if err != nil {
		return err
	}
	tmpl, err := d.Templates.GetByID(ctx, job.TemplateID)
	if err != nil {
		return err
	}
	d.progress(ctx, job.ID, 10)

	renderCtx := projector.Project(profile, job.Options)
	body, err := markup.Render(tmpl, renderCtx)
	if err != nil {
		return err
	}
	d.progress(ctx, job.ID, 30)

	format := job.Options.NormalizedFormat()
	result, err := d.renderWithRetry(ctx, job.ID, body, format, docrender.CompressionOptions{
		Enabled:  job.Options.Compress,
		MaxBytes: job.Options.MaxOutputBytes,
	})
	if err != nil {
		return err
	}
	d.progress(ctx, job.ID, 80)

	if result.Warning != "" {
		telemetry.Warn("worker.job.render_warning", map[string]any{"job_id": job.ID, "warning": result.Warning})
	}

	doc, err := d.Documents.Register(ctx, gendocs.RegisterInput{
		UserID:     job.UserID,
		ProfileID:  job.ProfileID,
		TemplateID: job.TemplateID,
		JobID:      job.ID,
		Label:      job.Options.Label,
		Format:     format,
		Bytes:      result.Bytes,
	})
	if err != nil {
		return err
	}

	if err := d.Repo.MarkCompleted(ctx, job.ID, doc.ID); err != nil {
		// Lost to a concurrent cancellation. The document stays registered;
		// cancellation is best-effort once a render is in flight.
		telemetry.Warn("worker.job.completion_discarded", map[string]any{"job_id": job.ID, "error": err.Error()})
		return nil
	}

	telemetry.Info("worker.job.completed", map[string]any{
		"job_id":         job.ID,
		"document_id":    doc.ID,
		"version":        doc.Version,
		"size_bytes":     doc.SizeBytes,
		"render_time_ms": result.RenderTimeMs,
	})
	return nil
}

// renderWithRetry retries only pool exhaustion, with backoff growing per
// attempt. Render timeouts and template errors fail immediately.
func (d *Dispatcher) renderWithRetry(ctx context.Context, jobID, body, format string, comp docrender.CompressionOptions) (docrender.Result, error) {
	var lastErr error
	for attempt := 0; attempt <= d.RetryMax; attempt++ {
		result, err := d.Renderer.RenderDocument(ctx, body, format, comp)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, docrender.ErrPoolExhausted) || attempt == d.RetryMax {
			break
		}

		backoff := d.RetryBackoff * time.Duration(attempt+1)
		telemetry.Warn("worker.job.pool_retry", map[string]any{
			"job_id":     jobID,
			"attempt":    attempt + 1,
			"backoff_ms": backoff.Milliseconds(),
		})
		if err := d.sleep(ctx, backoff); err != nil {
			return docrender.Result{}, err
		}
	}
	return docrender.Result{}, lastErr
}

func (d *Dispatcher) progress(ctx context.Context, jobID string, value int) {
	if err := d.Repo.UpdateProgress(ctx, jobID, value); err != nil {
		telemetry.Warn("worker.job.progress_failed", map[string]any{"job_id": jobID, "error": err.Error()})
	}
}

// finishWithError records the job's outcome. A cancelled job context while
// the dispatcher itself is still alive means the user aborted; everything
// else is a failure with the error message.
func (d *Dispatcher) finishWithError(parent context.Context, jobID string, jobCtx context.Context, cause error) {
	ctx := context.WithoutCancel(parent)
	if parent.Err() == nil && jobCtx.Err() != nil {
		if err := d.Repo.MarkCancelled(ctx, jobID); err != nil && !errors.Is(err, ErrNotCancellable) {
			telemetry.Error("worker.job.cancel_record_failed", map[string]any{"job_id": jobID, "error": err.Error()})
		}
		return
	}

	telemetry.Error("worker.job.failed", map[string]any{"job_id": jobID, "error": cause.Error()})
	if err := d.Repo.MarkFailed(ctx, jobID, cause.Error()); err != nil && !errors.Is(err, ErrNotClaimable) {
		telemetry.Error("worker.job.failure_record_failed", map[string]any{"job_id": jobID, "error": err.Error()})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ Enqueuer = (*Dispatcher)(nil)
