package gateway

import (
	"sync"
	"sync/atomic"
	"time"
)

// callStats counts tool calls served over HTTP and WebSocket.
type callStats struct {
	active atomic.Int64
	total  atomic.Int64
	failed atomic.Int64
	recent *latencyWindow
}

func newCallStats() *callStats {
	return &callStats{recent: newLatencyWindow(time.Minute)}
}

// begin marks a call in flight; the returned func records its outcome.
func (c *callStats) begin() func(ok bool) {
	c.active.Add(1)
	start := time.Now()
	return func(ok bool) {
		c.active.Add(-1)
		c.total.Add(1)
		if !ok {
			c.failed.Add(1)
		}
		c.recent.Record(time.Since(start))
	}
}

// load is the snapshot sent in /api/status, pongs and heartbeats.
func (c *callStats) load() map[string]any {
	avgMs, recent := c.recent.Avg()
	return map[string]any{
		"activeRequests": c.active.Load(),
		"totalRequests":  c.total.Load(),
		"failedRequests": c.failed.Load(),
		"recentRequests": recent,
		"avgLatencyMs":   avgMs,
	}
}

// latencyWindow keeps call latencies seen within a trailing window.
type latencyWindow struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	samples []latencySample
}

type latencySample struct {
	at time.Time
	d  time.Duration
}

func newLatencyWindow(window time.Duration) *latencyWindow {
	return &latencyWindow{window: window, now: time.Now, samples: make([]latencySample, 0, 64)}
}

// Record adds a sample stamped now and drops expired ones.
func (w *latencyWindow) Record(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.trim(now)
	w.samples = append(w.samples, latencySample{at: now, d: d})
}

// Avg returns the mean latency in milliseconds and the sample count within
// the window.
func (w *latencyWindow) Avg() (avgMs int64, count int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.trim(w.now())
	if len(w.samples) == 0 {
		return 0, 0
	}

	var total time.Duration
	for _, s := range w.samples {
		total += s.d
	}
	n := int64(len(w.samples))
	return (total / time.Duration(n)).Milliseconds(), n
}

// trim drops samples older than the window. Caller holds mu.
func (w *latencyWindow) trim(now time.Time) {
	cutoff := now.Add(-w.window)
	start := 0
	for start < len(w.samples) && w.samples[start].at.Before(cutoff) {
		start++
	}
	if start == 0 {
		return
	}
	// Copy down so the backing array does not grow without bound.
	n := copy(w.samples, w.samples[start:])
	w.samples = w.samples[:n]
}
