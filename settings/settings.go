// Package settings carries the concurrency, retry and rate-limit knobs handed to the download orchestrator.
package settings

import (
	"context"
	"sync"
	"time"

	"github.com/episodl/episodl/limit"
)

// Download is the orchestrator's input besides the target and the request plan.
type Download struct {
	Concurrency limit.Limit
	Retries     limit.Limit

	// DDoSWaitEpisodes is how many requests may be made before pausing; Unlimited never pauses.
	DDoSWaitEpisodes limit.Limit
	DDoSWait         time.Duration

	// Player streams into the media player instead of saving files.
	Player bool
}

// Throttle returns a fresh request counter for these settings.
func (d Download) Throttle() *Throttle {
	return NewThrottle(d.DDoSWaitEpisodes, d.DDoSWait)
}

// Throttle pauses for a fixed duration after every batch of requests, to stay
// under the anti-scraping radar of the target site. Safe for concurrent use.
type Throttle struct {
	every limit.Limit
	wait  time.Duration
	sleep func(context.Context, time.Duration) error

	mu    sync.Mutex
	count uint32
}

// NewThrottle pauses for wait after every `every` requests.
func NewThrottle(every limit.Limit, wait time.Duration) *Throttle {
	return &Throttle{every: every, wait: wait, sleep: Sleep}
}

// Request records one request, blocking first if the previous batch is full.
func (t *Throttle) Request(ctx context.Context) error {
	n, ok := t.every.Get().Get()
	if !ok || t.wait <= 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count == n {
		if err := t.sleep(ctx, t.wait); err != nil {
			return err
		}
		t.count = 0
	}
	t.count++
	return nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
