package download

import (
	"testing"
	"time"

	"github.com/mediafetch/mediafetch/internal/model"
)

func collectThrottled(t *testing.T) (*throttler, *[]model.Progress, *time.Time) {
	t.Helper()

	var received []model.Progress
	clock := time.Unix(1000, 0)

	th := newThrottler(func(p model.Progress) {
		received = append(received, p)
	})
	th.now = func() time.Time { return clock }

	return th, &received, &clock
}

func TestThrottlerSuppressesRapidUpdates(t *testing.T) {
	th, received, clock := collectThrottled(t)

	downloading := model.Progress{Status: model.ProgressDownloading}

	th.Forward(downloading)
	*clock = clock.Add(100 * time.Millisecond)
	th.Forward(downloading)
	*clock = clock.Add(100 * time.Millisecond)
	th.Forward(downloading)

	if len(*received) != 1 {
		t.Errorf("forwarded %d updates, want 1", len(*received))
	}
}

func TestThrottlerPassesAfterInterval(t *testing.T) {
	th, received, clock := collectThrottled(t)

	downloading := model.Progress{Status: model.ProgressDownloading}

	th.Forward(downloading)
	*clock = clock.Add(progressInterval)
	th.Forward(downloading)

	if len(*received) != 2 {
		t.Errorf("forwarded %d updates, want 2", len(*received))
	}
}

func TestThrottlerAlwaysPassesTerminalUpdates(t *testing.T) {
	th, received, clock := collectThrottled(t)

	th.Forward(model.Progress{Status: model.ProgressDownloading})
	*clock = clock.Add(time.Millisecond)
	th.Forward(model.Progress{Status: model.ProgressFinished})
	*clock = clock.Add(time.Millisecond)
	th.Forward(model.Progress{Status: model.ProgressError})

	if len(*received) != 3 {
		t.Errorf("forwarded %d updates, want 3", len(*received))
	}
}

func TestThrottlerNilSink(t *testing.T) {
	th := newThrottler(nil)
	// Must not panic.
	th.Forward(model.Progress{Status: model.ProgressDownloading})
}
