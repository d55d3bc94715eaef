package docrender

import "errors"

var (
	// ErrPoolExhausted indicates no engine lease became available before the
	// checkout deadline. Transient; callers may retry with backoff.
	ErrPoolExhausted = errors.New("render engine pool exhausted")

	// ErrRenderTimeout indicates a render exceeded its wall-clock budget and
	// was aborted. Not retried.
	ErrRenderTimeout = errors.New("render timed out")

	// ErrUnsupportedFormat indicates a format this renderer cannot produce.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)
