package download

import "sync/atomic"

// CancelToken is the cooperative cancellation flag shared by reference
// between a Service and all in-flight strategy attempts. It is polled at
// strategy boundaries; an attempt already delegated to the backend runs
// to its own completion before the next check.
type CancelToken struct {
	flag atomic.Bool
}

// Cancel sets the flag. Every subsequent boundary check aborts promptly.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Reset clears the flag for a new top-level request.
func (t *CancelToken) Reset() {
	t.flag.Store(false)
}

// Cancelled reports whether cancellation was requested.
func (t *CancelToken) Cancelled() bool {
	return t.flag.Load()
}
