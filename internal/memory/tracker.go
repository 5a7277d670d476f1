package memory

import (
	"sync"

	"github.com/23skdu/slabkit/internal/metrics"
)

// CallStats counts heap calls by kind.
type CallStats struct {
	Allocs   int64
	Reallocs int64
	Frees    int64
}

// Tracker records every region an allocator obtains, resizes or releases,
// keyed by the region's base address. It mirrors its totals into the heap
// metrics. A nil *Tracker is valid and records nothing.
//
// Tracker is safe for concurrent use so that many single-owner allocators
// can share one instance.
type Tracker struct {
	mu    sync.Mutex
	live  map[uintptr]int
	total int64
	calls CallStats
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{live: make(map[uintptr]int)}
}

// Alloc records a new region of n bytes at base.
func (t *Tracker) Alloc(base uintptr, n int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.live[base] += n
	t.total += int64(n)
	t.calls.Allocs++
	t.mu.Unlock()

	metrics.HeapBytes.Add(float64(n))
	metrics.HeapCallsTotal.WithLabelValues("alloc").Inc()
}

// Realloc records that the region at oldBase now lives at newBase with n
// bytes. An unknown oldBase is treated as a fresh allocation.
func (t *Tracker) Realloc(oldBase, newBase uintptr, n int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	prev := t.live[oldBase]
	delete(t.live, oldBase)
	t.live[newBase] = n
	delta := int64(n - prev)
	t.total += delta
	t.calls.Reallocs++
	t.mu.Unlock()

	metrics.HeapBytes.Add(float64(delta))
	metrics.HeapCallsTotal.WithLabelValues("realloc").Inc()
}

// Free records the release of the region at base.
func (t *Tracker) Free(base uintptr) {
	if t == nil {
		return
	}
	t.mu.Lock()
	n := t.live[base]
	delete(t.live, base)
	t.total -= int64(n)
	t.calls.Frees++
	t.mu.Unlock()

	metrics.HeapBytes.Sub(float64(n))
	metrics.HeapCallsTotal.WithLabelValues("free").Inc()
}

// HeapTotal returns the bytes currently held by live regions.
func (t *Tracker) HeapTotal() int64 {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Regions returns the number of live regions.
func (t *Tracker) Regions() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Calls returns a snapshot of the call counters.
func (t *Tracker) Calls() CallStats {
	if t == nil {
		return CallStats{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
