// Package pool recycles the roaring bitmaps slabs use to track live chunks.
package pool

import (
	"sync"
	"sync/atomic"

	"github.com/23skdu/slabkit/internal/metrics"
	"github.com/RoaringBitmap/roaring/v2"
)

// DefaultMaxRetainedBytes caps the serialized size of a live set that is
// kept for reuse. Larger sets belonged to very large slabs and are dropped.
const DefaultMaxRetainedBytes = 64 * 1024

// LiveSetPool hands out empty live-chunk bitmaps and takes them back when a
// slab is released. It is safe for concurrent use.
type LiveSetPool struct {
	sets        sync.Pool
	maxRetained uint64
	outstanding atomic.Int64
}

// NewLiveSetPool creates a pool that drops returned sets larger than
// maxRetainedBytes. A non-positive limit selects DefaultMaxRetainedBytes.
func NewLiveSetPool(maxRetainedBytes int) *LiveSetPool {
	if maxRetainedBytes <= 0 {
		maxRetainedBytes = DefaultMaxRetainedBytes
	}
	p := &LiveSetPool{maxRetained: uint64(maxRetainedBytes)}
	p.sets.New = func() any {
		metrics.LiveSetPoolOpsTotal.WithLabelValues("new").Inc()
		return roaring.New()
	}
	return p
}

var shared = NewLiveSetPool(DefaultMaxRetainedBytes)

// Acquire takes an empty live set from the process-wide pool.
func Acquire() *roaring.Bitmap {
	return shared.Acquire()
}

// Recycle returns a live set to the process-wide pool.
func Recycle(bm *roaring.Bitmap) {
	shared.Recycle(bm)
}

// Outstanding returns how many sets from the process-wide pool are in use.
func Outstanding() int64 {
	return shared.Outstanding()
}

// Acquire returns an empty bitmap.
func (p *LiveSetPool) Acquire() *roaring.Bitmap {
	p.outstanding.Add(1)
	metrics.LiveSetPoolOpsTotal.WithLabelValues("acquire").Inc()
	return p.sets.Get().(*roaring.Bitmap)
}

// Recycle clears bm and keeps it for the next Acquire unless it grew past
// the retention limit. Nil is ignored.
func (p *LiveSetPool) Recycle(bm *roaring.Bitmap) {
	if bm == nil {
		return
	}
	p.outstanding.Add(-1)
	if bm.GetSizeInBytes() > p.maxRetained {
		metrics.LiveSetPoolOpsTotal.WithLabelValues("drop").Inc()
		return
	}
	bm.Clear()
	metrics.LiveSetPoolOpsTotal.WithLabelValues("recycle").Inc()
	p.sets.Put(bm)
}

// Outstanding returns Acquire calls not yet matched by Recycle.
func (p *LiveSetPool) Outstanding() int64 {
	return p.outstanding.Load()
}
