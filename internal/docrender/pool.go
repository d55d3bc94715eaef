package docrender

import (
	"context"
	"os"

	"github.com/chromedp/chromedp"

	"cvgen-backend/internal/shared/telemetry"
)

// EnginePool is a bounded pool of headless-Chrome allocator leases. The pool
// size is the hard ceiling on concurrent off-process renders: checkout blocks
// until a lease frees or the caller's context expires. Workers never spawn
// engine instances outside the pool.
type EnginePool struct {
	leases chan *EngineLease
	cancel context.CancelFunc
}

// EngineLease is one checked-out engine slot. The allocator context is used
// to spawn a browser context per render.
type EngineLease struct {
	allocCtx context.Context
	pool     *EnginePool
}

// NewEnginePool creates size leases, each backed by its own Chrome exec
// allocator. chromePath overrides the browser binary when set.
func NewEnginePool(size int, chromePath string) *EnginePool {
	if size < 1 {
		size = 1
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	pool := &EnginePool{
		leases: make(chan *EngineLease, size),
		cancel: cancel,
	}
	for i := 0; i < size; i++ {
		allocCtx, _ := chromedp.NewExecAllocator(rootCtx, opts...)
		pool.leases <- &EngineLease{allocCtx: allocCtx, pool: pool}
	}

	telemetry.Info("engine_pool.init", map[string]any{"size": size})
	return pool
}

// Checkout acquires a lease, blocking until one frees or ctx expires.
func (p *EnginePool) Checkout(ctx context.Context) (*EngineLease, error) {
	select {
	case lease := <-p.leases:
		return lease, nil
	case <-ctx.Done():
		return nil, ErrPoolExhausted
	}
}

// Release returns a lease to the pool.
func (p *EnginePool) Release(lease *EngineLease) {
	if lease == nil {
		return
	}
	p.leases <- lease
}

// Size reports the pool's lease count.
func (p *EnginePool) Size() int {
	return cap(p.leases)
}

// Close tears down all allocators. Outstanding renders are aborted.
func (p *EnginePool) Close() {
	p.cancel()
}
