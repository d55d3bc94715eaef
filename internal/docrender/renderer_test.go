package docrender

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubPDF replaces the Chrome render hook for the duration of a test.
func stubPDF(t *testing.T, fn func(ctx context.Context, lease *EngineLease, markup string, scale float64) ([]byte, error)) {
	t.Helper()
	orig := printToPDF
	printToPDF = fn
	t.Cleanup(func() { printToPDF = orig })
}

func TestRenderHTMLPassthrough(t *testing.T) {
	stubPDF(t, func(context.Context, *EngineLease, string, float64) ([]byte, error) {
		t.Fatal("html must never reach the engine")
		return nil, nil
	})

	// No pool at all: html rendering must not check one out.
	r := &Renderer{Pool: nil}
	res, err := r.RenderDocument(context.Background(), "<p>hi</p>", FormatHTML, CompressionOptions{})
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if string(res.Bytes) != "<p>hi</p>" || res.PageCount != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := &Renderer{Pool: NewEnginePool(1, "")}
	defer r.Pool.Close()

	_, err := r.RenderDocument(context.Background(), "x", "docx", CompressionOptions{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRenderPDFThroughPool(t *testing.T) {
	stubPDF(t, func(_ context.Context, _ *EngineLease, markup string, scale float64) ([]byte, error) {
		if scale != 1.0 {
			t.Fatalf("expected full scale, got %f", scale)
		}
		return []byte("%PDF " + markup), nil
	})

	pool := NewEnginePool(1, "")
	defer pool.Close()
	r := &Renderer{Pool: pool, CheckoutTimeout: time.Second, RenderTimeout: time.Second}

	res, err := r.RenderDocument(context.Background(), "body", FormatPDF, CompressionOptions{})
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !strings.HasPrefix(string(res.Bytes), "%PDF") {
		t.Fatalf("unexpected bytes: %q", res.Bytes)
	}
	if res.SizeBytes != int64(len(res.Bytes)) {
		t.Fatalf("size mismatch: %d vs %d", res.SizeBytes, len(res.Bytes))
	}

	// The lease must have been released.
	if len(pool.leases) != 1 {
		t.Fatalf("lease not returned to pool")
	}
}

func TestCheckoutTimesOutWhenPoolBusy(t *testing.T) {
	pool := NewEnginePool(1, "")
	defer pool.Close()

	// Occupy the only lease.
	lease, err := pool.Checkout(context.Background())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	defer pool.Release(lease)

	r := &Renderer{Pool: pool, CheckoutTimeout: 20 * time.Millisecond}
	_, err = r.RenderDocument(context.Background(), "x", FormatPDF, CompressionOptions{})
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestCheckoutHonorsCallerCancellation(t *testing.T) {
	pool := NewEnginePool(1, "")
	defer pool.Close()

	lease, _ := pool.Checkout(context.Background())
	defer pool.Release(lease)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := pool.Checkout(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrPoolExhausted) {
			t.Fatalf("expected ErrPoolExhausted, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("checkout did not return after cancellation")
	}
}

func TestPoolBoundsConcurrentRenders(t *testing.T) {
	const size = 2
	pool := NewEnginePool(size, "")
	defer pool.Close()

	var mu sync.Mutex
	active, peak := 0, 0
	stubPDF(t, func(context.Context, *EngineLease, string, float64) ([]byte, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return []byte("pdf"), nil
	})

	r := &Renderer{Pool: pool, CheckoutTimeout: time.Second, RenderTimeout: time.Second}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.RenderDocument(context.Background(), "x", FormatPDF, CompressionOptions{}); err != nil {
				t.Errorf("render: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > size {
		t.Fatalf("pool ceiling violated: %d concurrent renders with size %d", peak, size)
	}
}

func TestRenderTimeoutMapsToSentinel(t *testing.T) {
	stubPDF(t, func(ctx context.Context, _ *EngineLease, _ string, _ float64) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	pool := NewEnginePool(1, "")
	defer pool.Close()
	r := &Renderer{Pool: pool, CheckoutTimeout: time.Second, RenderTimeout: 20 * time.Millisecond}

	_, err := r.RenderDocument(context.Background(), "x", FormatPDF, CompressionOptions{})
	if !errors.Is(err, ErrRenderTimeout) {
		t.Fatalf("expected ErrRenderTimeout, got %v", err)
	}
}

func TestCompressionRetriesOnceThenWarns(t *testing.T) {
	var scales []float64
	stubPDF(t, func(_ context.Context, _ *EngineLease, _ string, scale float64) ([]byte, error) {
		scales = append(scales, scale)
		if scale < 1.0 {
			return []byte(strings.Repeat("b", 80)), nil
		}
		return []byte(strings.Repeat("a", 100)), nil
	})

	pool := NewEnginePool(1, "")
	defer pool.Close()
	r := &Renderer{Pool: pool, CheckoutTimeout: time.Second, RenderTimeout: time.Second}

	res, err := r.RenderDocument(context.Background(), "x", FormatPDF, CompressionOptions{Enabled: true, MaxBytes: 50})
	if err != nil {
		t.Fatalf("compression must not hard-fail: %v", err)
	}
	if len(scales) != 2 || scales[1] >= 1.0 {
		t.Fatalf("expected one reduced-scale retry, got %v", scales)
	}
	if len(res.Bytes) != 80 {
		t.Fatalf("expected best-effort bytes, got %d", len(res.Bytes))
	}
	if res.Warning == "" {
		t.Fatalf("expected compression warning")
	}
}

func TestCompressionSatisfiedOnRetry(t *testing.T) {
	stubPDF(t, func(_ context.Context, _ *EngineLease, _ string, scale float64) ([]byte, error) {
		if scale < 1.0 {
			return []byte(strings.Repeat("b", 40)), nil
		}
		return []byte(strings.Repeat("a", 100)), nil
	})

	pool := NewEnginePool(1, "")
	defer pool.Close()
	r := &Renderer{Pool: pool, CheckoutTimeout: time.Second, RenderTimeout: time.Second}

	res, err := r.RenderDocument(context.Background(), "x", FormatPDF, CompressionOptions{Enabled: true, MaxBytes: 50})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Warning != "" {
		t.Fatalf("no warning expected when the ceiling is met, got %q", res.Warning)
	}
	if res.SizeBytes != 40 {
		t.Fatalf("expected reduced bytes, got %d", res.SizeBytes)
	}
}
