package memory

import (
	"math"
	"unsafe"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/metrics"
	"github.com/23skdu/slabkit/internal/pool"
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"
)

// Slab is one contiguous array of equal-size chunks with an index free list.
// The free list starts in ascending order and Insert pops from its top, so
// the most recently removed chunk is the next one handed out.
//
// A Slab is not safe for concurrent use.
type Slab[T any] struct {
	chunks     []T
	free       []int32 // free[:chunksFree] is the stack of free indices
	chunksFree int
	chunkSize  uintptr
	live       *roaring.Bitmap

	// next is the index of the following slab in the owning Pool, -1 if none.
	next int

	logger        zerolog.Logger
	tracker       *Tracker
	assumeAligned bool
}

// NewSlab allocates a slab of chunkCount chunks of T.
func NewSlab[T any](chunkCount int, opts ...Option) (*Slab[T], error) {
	o := Resolve(opts...)
	return newSlab[T](chunkCount, o)
}

func newSlab[T any](chunkCount int, o Options) (*Slab[T], error) {
	var zero T
	size := unsafe.Sizeof(zero)
	switch {
	case size == 0:
		return nil, errors.Report(o.Logger, errors.New(errors.ErrorTypeGeometry, "Slab.Create",
			"chunk size must be positive"))
	case chunkCount <= 0 || chunkCount > math.MaxInt32:
		return nil, errors.Report(o.Logger, errors.Newf(errors.ErrorTypeGeometry, "Slab.Create",
			"chunk count %d out of range", chunkCount).WithContext("chunk_count", chunkCount))
	}

	s := &Slab[T]{
		chunks:        make([]T, chunkCount),
		free:          make([]int32, chunkCount),
		chunksFree:    chunkCount,
		chunkSize:     size,
		live:          pool.Acquire(),
		next:          -1,
		logger:        o.Logger,
		tracker:       o.Tracker,
		assumeAligned: o.AssumeAligned,
	}
	for i := range s.free {
		s.free[i] = int32(i)
	}

	s.tracker.Alloc(s.base(), s.footprint())
	metrics.SlabsCreatedTotal.Inc()
	return s, nil
}

func (s *Slab[T]) base() uintptr {
	if len(s.chunks) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s.chunks[0]))
}

// footprint is the byte size of chunk storage plus the free list.
func (s *Slab[T]) footprint() int {
	return len(s.chunks)*int(s.chunkSize) + len(s.free)*int(unsafe.Sizeof(int32(0)))
}

// Insert takes a free chunk, copies *data into it when data is non-nil and
// returns a pointer to the chunk. A full slab logs a warning and returns
// errors.ErrFull with a nil pointer.
func (s *Slab[T]) Insert(data *T) (*T, error) {
	if s.chunksFree == 0 {
		metrics.SlabFullTotal.Inc()
		s.logger.Warn().
			Int("chunk_count", len(s.chunks)).
			Msg("block is full")
		return nil, errors.ErrFull
	}

	s.chunksFree--
	idx := s.free[s.chunksFree]
	chunk := &s.chunks[idx]
	if data != nil {
		*chunk = *data
	}
	s.live.Add(uint32(idx))
	return chunk, nil
}

// Remove returns *ref to the free list, zeroes the chunk and sets *ref to
// nil. Unless the slab was built with WithAssumeAligned, *ref must point at
// the start of a chunk in this slab.
func (s *Slab[T]) Remove(ref **T) error {
	return s.remove(ref, s.assumeAligned, "Slab.Remove")
}

// RemoveAligned is Remove without the alignment check. A reference outside
// the slab is still rejected.
func (s *Slab[T]) RemoveAligned(ref **T) error {
	return s.remove(ref, true, "Slab.RemoveAligned")
}

func (s *Slab[T]) remove(ref **T, aligned bool, op string) error {
	if ref == nil || *ref == nil {
		return errors.Report(s.logger, errors.New(errors.ErrorTypeBounds, op, "nil reference"))
	}

	addr := uintptr(unsafe.Pointer(*ref))
	var idx int
	if aligned {
		var ok bool
		if idx, ok = s.chunkOf(addr); !ok {
			return errors.Report(s.logger, errors.Newf(errors.ErrorTypeBounds, op,
				"address %#x outside slab", addr).WithContext("address", addr))
		}
	} else {
		var ok bool
		if idx, ok = s.IndexOf(*ref); !ok {
			return errors.Report(s.logger, errors.Newf(errors.ErrorTypeAlignment, op,
				"address %#x is not a chunk of this slab", addr).
				WithContext("address", addr).
				WithContext("chunk_size", s.chunkSize))
		}
	}

	if s.chunksFree == len(s.chunks) || !s.live.Contains(uint32(idx)) {
		return errors.Report(s.logger, errors.Newf(errors.ErrorTypeDoubleFree, op,
			"chunk %d is already free", idx).WithContext("chunk", idx))
	}

	var zero T
	s.chunks[idx] = zero
	s.free[s.chunksFree] = int32(idx)
	s.chunksFree++
	s.live.Remove(uint32(idx))
	*ref = nil
	return nil
}

// chunkOf maps addr to the chunk containing it without checking alignment.
func (s *Slab[T]) chunkOf(addr uintptr) (int, bool) {
	base := s.base()
	if base == 0 || addr < base {
		return 0, false
	}
	idx := (addr - base) / s.chunkSize
	if idx >= uintptr(len(s.chunks)) {
		return 0, false
	}
	return int(idx), true
}

// IndexOf returns the chunk index p points at. It reports false when p is
// outside the slab or not at a chunk boundary.
func (s *Slab[T]) IndexOf(p *T) (int, bool) {
	if p == nil {
		return 0, false
	}
	addr := uintptr(unsafe.Pointer(p))
	idx, ok := s.chunkOf(addr)
	if !ok || (addr-s.base())%s.chunkSize != 0 {
		return 0, false
	}
	return idx, true
}

// owns reports whether addr falls anywhere inside the chunk array.
func (s *Slab[T]) owns(addr uintptr) bool {
	_, ok := s.chunkOf(addr)
	return ok
}

// ContainsAddress reports whether p is a chunk-aligned address of this slab.
func (s *Slab[T]) ContainsAddress(p *T) bool {
	_, ok := s.IndexOf(p)
	return ok
}

// HasSpace reports whether at least one chunk is free.
func (s *Slab[T]) HasSpace() bool { return s.chunksFree > 0 }

// Full reports whether every chunk is in use.
func (s *Slab[T]) Full() bool { return s.chunksFree == 0 }

// Empty reports whether every chunk is free.
func (s *Slab[T]) Empty() bool { return s.chunksFree == len(s.chunks) }

func (s *Slab[T]) ChunkCount() int { return len(s.chunks) }

func (s *Slab[T]) ChunkSize() int { return int(s.chunkSize) }

func (s *Slab[T]) ChunksFree() int { return s.chunksFree }

// InUse returns the number of live chunks.
func (s *Slab[T]) InUse() int { return int(s.live.GetCardinality()) }

// Release drops the chunk storage. Pointers previously returned by Insert
// must not be used afterwards.
func (s *Slab[T]) Release() {
	if s.chunks == nil {
		return
	}
	s.tracker.Free(s.base())
	clear(s.chunks)
	s.chunks = nil
	s.free = nil
	s.chunksFree = 0
	pool.Recycle(s.live)
	s.live = roaring.New()
	s.next = -1
	metrics.SlabsReleasedTotal.Inc()
}
