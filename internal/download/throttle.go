package download

import (
	"sync"
	"time"

	"github.com/mediafetch/mediafetch/internal/model"
)

// progressInterval is the minimum wall-clock gap between forwarded
// downloading updates.
const progressInterval = 500 * time.Millisecond

// throttler rate-limits progress events forwarded to the host sink so the
// backend's per-fragment callbacks cannot overwhelm a UI thread.
type throttler struct {
	sink     ProgressFunc
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

func newThrottler(sink ProgressFunc) *throttler {
	return &throttler{
		sink:     sink,
		interval: progressInterval,
		now:      time.Now,
	}
}

// Forward delivers p to the sink unless a downloading update was already
// delivered within the throttle interval. Finished and error updates
// always pass.
func (t *throttler) Forward(p model.Progress) {
	if t.sink == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !p.Status.IsTerminal() && !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return
	}
	t.last = now

	t.sink(p)
}
