package memory

import (
	"unsafe"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/metrics"
)

// PoolStats is a point-in-time summary of a Pool.
type PoolStats struct {
	Slabs      int
	ChunkCount int
	ChunkSize  int
	Live       int
	Free       int
	Growths    int
}

// Pool is a growable chain of equally sized slabs. Insert never fails: when
// no slab has space a new one is appended.
//
// tail, lastWithSpace and lastRemovedFrom are hints. Each is re-validated
// before use, so a stale value costs a scan and nothing else.
//
// A Pool is not safe for concurrent use.
type Pool[T any] struct {
	slabs      []*Slab[T]
	chunkCount int
	opts       Options
	growths    int

	tail            int
	lastWithSpace   int
	lastRemovedFrom int
}

// NewPool creates a pool with a single root slab of chunkCount chunks.
func NewPool[T any](chunkCount int, opts ...Option) (*Pool[T], error) {
	o := Resolve(opts...)
	root, err := newSlab[T](chunkCount, o)
	if err != nil {
		return nil, err
	}
	return &Pool[T]{
		slabs:      []*Slab[T]{root},
		chunkCount: chunkCount,
		opts:       o,
	}, nil
}

func (p *Pool[T]) slabAt(i int) *Slab[T] {
	if i < 0 || i >= len(p.slabs) {
		return nil
	}
	return p.slabs[i]
}

// tailIndex returns the cached tail if it is still the last slab of the
// chain, otherwise walks the chain from the root. It returns -1 for a
// released pool.
func (p *Pool[T]) tailIndex() int {
	if s := p.slabAt(p.tail); s != nil && s.next == -1 {
		return p.tail
	}
	if len(p.slabs) == 0 {
		return -1
	}
	i := 0
	for p.slabs[i].next != -1 {
		i = p.slabs[i].next
	}
	p.tail = i
	return i
}

// Grow appends a slab with the pool's geometry to the end of the chain.
func (p *Pool[T]) Grow() {
	s := errors.Must(newSlab[T](p.chunkCount, p.opts))
	prev := p.tailIndex()
	p.slabs = append(p.slabs, s)
	idx := len(p.slabs) - 1
	p.tail = idx
	if prev < 0 {
		// released pool: the new slab is the root again
		return
	}
	p.slabs[prev].next = idx
	p.growths++
	metrics.PoolGrowthsTotal.Inc()
	p.opts.Logger.Debug().
		Int("slabs", len(p.slabs)).
		Int("chunk_count", p.chunkCount).
		Msg("pool grown")
}

// findSlot returns a slab with at least one free chunk, growing if needed.
func (p *Pool[T]) findSlot() *Slab[T] {
	if s := p.slabAt(p.lastWithSpace); s != nil && s.HasSpace() {
		metrics.PoolCacheLookupsTotal.WithLabelValues("last_with_space", "hit").Inc()
		return s
	}
	metrics.PoolCacheLookupsTotal.WithLabelValues("last_with_space", "miss").Inc()

	for i := 0; i >= 0 && i < len(p.slabs); i = p.slabs[i].next {
		if p.slabs[i].HasSpace() {
			p.lastWithSpace = i
			return p.slabs[i]
		}
	}

	p.Grow()
	p.lastWithSpace = p.tail
	return p.slabs[p.tail]
}

// Insert stores a copy of *data (or a zero value when data is nil) and
// returns a pointer to it.
func (p *Pool[T]) Insert(data *T) *T {
	return errors.Must(p.findSlot().Insert(data))
}

// findOwningSlab returns the index of the slab whose chunk array contains
// addr, or -1.
func (p *Pool[T]) findOwningSlab(addr uintptr) int {
	cached := p.lastRemovedFrom
	if s := p.slabAt(cached); s != nil && s.owns(addr) {
		metrics.PoolCacheLookupsTotal.WithLabelValues("last_removed_from", "hit").Inc()
		return cached
	}
	metrics.PoolCacheLookupsTotal.WithLabelValues("last_removed_from", "miss").Inc()

	for i := 0; i >= 0 && i < len(p.slabs); i = p.slabs[i].next {
		if i != cached && p.slabs[i].owns(addr) {
			return i
		}
	}
	return -1
}

// Remove frees the chunk *ref points at and sets *ref to nil. A reference
// that no slab in the pool owns yields errors.ErrForeignReference.
func (p *Pool[T]) Remove(ref **T) error {
	if ref == nil || *ref == nil {
		return errors.Report(p.opts.Logger, errors.New(errors.ErrorTypeBounds, "Pool.Remove", "nil reference"))
	}
	if len(p.slabs) == 0 {
		return errors.Report(p.opts.Logger, errors.New(errors.ErrorTypeForeign, "Pool.Remove",
			"pool has been released"))
	}

	addr := uintptr(unsafe.Pointer(*ref))
	idx := p.findOwningSlab(addr)
	if idx < 0 {
		return errors.Report(p.opts.Logger, errors.Newf(errors.ErrorTypeForeign, "Pool.Remove",
			"address %#x not owned by any of %d slabs", addr, len(p.slabs)).
			WithContext("address", addr))
	}

	if err := p.slabs[idx].remove(ref, p.opts.AssumeAligned, "Pool.Remove"); err != nil {
		return err
	}
	p.lastRemovedFrom = idx
	return nil
}

// Contains reports whether p is a chunk-aligned address inside the pool.
func (p *Pool[T]) Contains(ptr *T) bool {
	for _, s := range p.slabs {
		if s.ContainsAddress(ptr) {
			return true
		}
	}
	return false
}

// SlabCount returns the length of the chain.
func (p *Pool[T]) SlabCount() int { return len(p.slabs) }

// Len returns the number of live chunks across the chain.
func (p *Pool[T]) Len() int {
	n := 0
	for _, s := range p.slabs {
		n += s.InUse()
	}
	return n
}

// Cap returns the total number of chunks across the chain.
func (p *Pool[T]) Cap() int { return len(p.slabs) * p.chunkCount }

// Growths returns how many slabs were appended after the root.
func (p *Pool[T]) Growths() int { return p.growths }

func (p *Pool[T]) Stats() PoolStats {
	st := PoolStats{
		Slabs:      len(p.slabs),
		ChunkCount: p.chunkCount,
		Growths:    p.growths,
	}
	for _, s := range p.slabs {
		st.ChunkSize = s.ChunkSize()
		st.Live += s.InUse()
		st.Free += s.ChunksFree()
	}
	return st
}

// Release tears down every slab in the chain. A later Insert starts a new
// root slab.
func (p *Pool[T]) Release() {
	for _, s := range p.slabs {
		s.Release()
	}
	p.slabs = nil
	p.growths = 0
	p.tail, p.lastWithSpace, p.lastRemovedFrom = 0, 0, 0
}
