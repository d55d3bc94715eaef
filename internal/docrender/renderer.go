package docrender

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"cvgen-backend/internal/shared/telemetry"
)

// Output formats.
const (
	FormatPDF   = "pdf"
	FormatHTML  = "html"
	FormatImage = "image"
)

const reducedQualityScale = 0.85

// CompressionOptions bound the output size of binary formats.
type CompressionOptions struct {
	Enabled  bool
	MaxBytes int64
}

// Result is a rendered document plus render metadata.
type Result struct {
	Bytes        []byte
	ContentType  string
	PageCount    int
	SizeBytes    int64
	RenderTimeMs int64
	// Warning is set when compression could not reach the requested ceiling;
	// the bytes are still the best achieved result.
	Warning string
}

// Renderer converts rendered markup into a binary document through the
// engine pool. HTML output is a passthrough and never touches the pool.
type Renderer struct {
	Pool            *EnginePool
	CheckoutTimeout time.Duration
	RenderTimeout   time.Duration
}

// Hooks for tests: rendering requires a real Chrome binary, so unit tests
// stub these the same way db tests stub sql.Open.
var (
	printToPDF  = renderPDFWithChrome
	captureShot = renderImageWithChrome
)

// RenderDocument renders markup into the requested format.
func (r *Renderer) RenderDocument(ctx context.Context, markup, format string, comp CompressionOptions) (Result, error) {
	start := time.Now()

	switch format {
	case FormatHTML:
		data := []byte(markup)
		return Result{
			Bytes:        data,
			ContentType:  "text/html; charset=utf-8",
			PageCount:    1,
			SizeBytes:    int64(len(data)),
			RenderTimeMs: time.Since(start).Milliseconds(),
		}, nil
	case FormatPDF, FormatImage:
		// engine formats handled below
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	checkoutCtx := ctx
	if r.CheckoutTimeout > 0 {
		var cancel context.CancelFunc
		checkoutCtx, cancel = context.WithTimeout(ctx, r.CheckoutTimeout)
		defer cancel()
	}
	lease, err := r.Pool.Checkout(checkoutCtx)
	if err != nil {
		return Result{}, err
	}
	defer r.Pool.Release(lease)

	data, err := r.renderOnLease(ctx, lease, markup, format, 1.0)
	if err != nil {
		return Result{}, err
	}

	warning := ""
	if comp.Enabled && comp.MaxBytes > 0 && int64(len(data)) > comp.MaxBytes {
		// One reduced-fidelity attempt before reporting best effort.
		reduced, rerr := r.renderOnLease(ctx, lease, markup, format, reducedQualityScale)
		if rerr == nil && len(reduced) < len(data) {
			data = reduced
		}
		if int64(len(data)) > comp.MaxBytes {
			warning = fmt.Sprintf("compression failed: best achieved %d bytes exceeds ceiling %d", len(data), comp.MaxBytes)
			telemetry.Warn("docrender.compression_failed", map[string]any{
				"achieved_bytes": len(data),
				"ceiling_bytes":  comp.MaxBytes,
			})
		}
	}

	result := Result{
		Bytes:        data,
		ContentType:  contentTypeFor(format),
		SizeBytes:    int64(len(data)),
		RenderTimeMs: time.Since(start).Milliseconds(),
		Warning:      warning,
	}
	if format == FormatPDF {
		result.PageCount = pdfPageCount(data)
	} else {
		result.PageCount = 1
	}
	return result, nil
}

// renderOnLease runs one engine render under the wall-clock budget.
func (r *Renderer) renderOnLease(ctx context.Context, lease *EngineLease, markup, format string, scale float64) ([]byte, error) {
	renderCtx := ctx
	if r.RenderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, r.RenderTimeout)
		defer cancel()
	}

	var (
		data []byte
		err  error
	)
	if format == FormatImage {
		data, err = captureShot(renderCtx, lease, markup, scale)
	} else {
		data, err = printToPDF(renderCtx, lease, markup, scale)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrRenderTimeout
		}
		return nil, fmt.Errorf("engine render: %w", err)
	}
	return data, nil
}

func contentTypeFor(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatImage:
		return "image/png"
	default:
		return "text/html; charset=utf-8"
	}
}

// renderPDFWithChrome loads the markup from a temp file and prints it to an
// A4 PDF. The temp file keeps relative asset resolution working the same way
// a served page would.
func renderPDFWithChrome(ctx context.Context, lease *EngineLease, markup string, scale float64) ([]byte, error) {
	htmlURL, cleanup, err := writeMarkupTemp(markup)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cctx, cancelCtx := chromedp.NewContext(lease.allocCtx)
	defer cancelCtx()
	// Bind the browser context lifetime to the render budget.
	cctx, cancelBudget := mergeDeadline(cctx, ctx)
	defer cancelBudget()

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate(htmlURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				WithScale(scale).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// renderImageWithChrome captures a full-page PNG screenshot of the markup.
func renderImageWithChrome(ctx context.Context, lease *EngineLease, markup string, scale float64) ([]byte, error) {
	htmlURL, cleanup, err := writeMarkupTemp(markup)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cctx, cancelCtx := chromedp.NewContext(lease.allocCtx)
	defer cancelCtx()
	cctx, cancelBudget := mergeDeadline(cctx, ctx)
	defer cancelBudget()

	quality := 100
	if scale < 1.0 {
		quality = 70
	}

	var imgBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate(htmlURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&imgBuf, quality),
	)
	if err != nil {
		return nil, err
	}
	return imgBuf, nil
}

func writeMarkupTemp(markup string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "cvgen-")
	if err != nil {
		return "", nil, fmt.Errorf("mkdtemp: %w", err)
	}
	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(markup), 0o644); err != nil {
		os.RemoveAll(tmpDir)
		return "", nil, fmt.Errorf("write markup: %w", err)
	}
	return "file://" + htmlPath, func() { os.RemoveAll(tmpDir) }, nil
}

// mergeDeadline applies budget's deadline/cancellation to browserCtx without
// replacing its value chain (chromedp contexts carry the browser handle).
func mergeDeadline(browserCtx, budget context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := budget.Deadline(); ok {
		return context.WithDeadline(browserCtx, deadline)
	}
	ctx, cancel := context.WithCancel(browserCtx)
	stop := context.AfterFunc(budget, cancel)
	return ctx, func() { stop(); cancel() }
}
