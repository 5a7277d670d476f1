package buffer

import (
	"sync/atomic"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/memory"
	"github.com/23skdu/slabkit/internal/metrics"
	"github.com/rs/zerolog"
)

// DefaultReserve is the reservation granularity used when none is given.
const DefaultReserve = 16

var defaultReserve atomic.Int64

func init() {
	defaultReserve.Store(DefaultReserve)
}

// SetDefaultReserve changes the granularity used by NewGrowable(0) and
// NewGrowableFrom. Non-positive values are ignored.
func SetDefaultReserve(n int) {
	if n > 0 {
		defaultReserve.Store(int64(n))
	}
}

// GrowableBuffer is a bounds-checked array that doubles its capacity when
// full. Capacity only shrinks through Shrink or Clear, and never below the
// reservation it was created with.
//
// A GrowableBuffer is not safe for concurrent use.
type GrowableBuffer[T any] struct {
	data     []T // len(data) is the capacity
	used     int
	reserved int
	logger   zerolog.Logger
	tracker  *memory.Tracker
}

// NewGrowable creates an empty buffer with capacity reserved. A
// non-positive reserved selects the default reserve.
func NewGrowable[T any](reserved int, opts ...memory.Option) *GrowableBuffer[T] {
	if reserved <= 0 {
		reserved = int(defaultReserve.Load())
	}
	o := memory.Resolve(opts...)
	g := &GrowableBuffer[T]{
		data:     make([]T, reserved),
		reserved: reserved,
		logger:   o.Logger,
		tracker:  o.Tracker,
	}
	if base, n := regionOf(g.data); n > 0 {
		g.tracker.Alloc(base, n)
	}
	return g
}

// NewGrowableFrom creates a buffer holding a copy of src.
func NewGrowableFrom[T any](src []T, opts ...memory.Option) *GrowableBuffer[T] {
	g := NewGrowable[T](0, opts...)
	g.Join(src...)
	return g
}

// resize moves the used elements into fresh storage of newCap elements.
func (g *GrowableBuffer[T]) resize(newCap int) {
	direction := "grow"
	if newCap < len(g.data) {
		direction = "shrink"
	}

	oldBase, _ := regionOf(g.data)
	data := make([]T, newCap)
	copy(data, g.data[:g.used])
	g.data = data

	newBase, n := regionOf(g.data)
	if n > 0 {
		g.tracker.Realloc(oldBase, newBase, n)
	}
	metrics.GrowableResizesTotal.WithLabelValues(direction).Inc()
	g.logger.Debug().
		Str("direction", direction).
		Int("capacity", newCap).
		Int("used", g.used).
		Msg("growable buffer resized")
}

func (g *GrowableBuffer[T]) ensure(n int) {
	if n <= len(g.data) {
		return
	}
	c := max(len(g.data), 1)
	for c < n {
		c *= 2
	}
	g.resize(c)
}

func (g *GrowableBuffer[T]) outOfBounds(op string, idx int) error {
	return errors.Report(g.logger, errors.Newf(errors.ErrorTypeBounds, op,
		"index %d >= %d", idx, g.used).
		WithContext("index", idx).
		WithContext("used", g.used))
}

// PushBack appends v, doubling the capacity when the buffer is full.
func (g *GrowableBuffer[T]) PushBack(v T) {
	if g.used == len(g.data) {
		g.Grow()
	}
	g.data[g.used] = v
	g.used++
}

// PopBack removes the last element.
func (g *GrowableBuffer[T]) PopBack() error {
	if g.used == 0 {
		return errors.Report(g.logger, errors.New(errors.ErrorTypeEmpty, "GrowableBuffer.PopBack",
			"pop from empty buffer"))
	}
	g.used--
	var zero T
	g.data[g.used] = zero
	return nil
}

// Back returns the last element, or false when the buffer is empty.
func (g *GrowableBuffer[T]) Back() (*T, bool) {
	if g.used == 0 {
		return nil, false
	}
	return &g.data[g.used-1], true
}

// At returns a pointer to element idx. The pointer is invalidated by any
// operation that resizes the buffer.
func (g *GrowableBuffer[T]) At(idx int) (*T, error) {
	if idx < 0 || idx >= g.used {
		return nil, g.outOfBounds("GrowableBuffer.At", idx)
	}
	return &g.data[idx], nil
}

// Set stores v at idx.
func (g *GrowableBuffer[T]) Set(idx int, v T) error {
	if idx < 0 || idx >= g.used {
		return g.outOfBounds("GrowableBuffer.Set", idx)
	}
	g.data[idx] = v
	return nil
}

// Insert places v at idx and shifts the elements from idx on up by one.
// idx must address an existing element; use PushBack to append.
func (g *GrowableBuffer[T]) Insert(idx int, v T) error {
	if idx < 0 || idx >= g.used {
		return g.outOfBounds("GrowableBuffer.Insert", idx)
	}
	if g.used == len(g.data) {
		g.Grow()
	}
	copy(g.data[idx+1:g.used+1], g.data[idx:g.used])
	g.data[idx] = v
	g.used++
	return nil
}

// Erase removes element idx and shifts the tail down by one.
func (g *GrowableBuffer[T]) Erase(idx int) error {
	if idx < 0 || idx >= g.used {
		return g.outOfBounds("GrowableBuffer.Erase", idx)
	}
	copy(g.data[idx:g.used-1], g.data[idx+1:g.used])
	g.used--
	var zero T
	g.data[g.used] = zero
	return nil
}

// Grow doubles the capacity.
func (g *GrowableBuffer[T]) Grow() {
	g.resize(max(len(g.data)*2, 1))
}

// GrowBy adds n elements of capacity.
func (g *GrowableBuffer[T]) GrowBy(n int) {
	if n <= 0 {
		return
	}
	g.resize(len(g.data) + n)
}

// Shrink reduces the capacity to the smallest multiple of the reservation
// that leaves at least one free slot: (used/reserved + 1) * reserved.
// It never grows the buffer.
func (g *GrowableBuffer[T]) Shrink() {
	target := (g.used/g.reserved + 1) * g.reserved
	if target >= len(g.data) {
		return
	}
	g.resize(target)
}

// Clear drops every element and shrinks back to the reservation.
func (g *GrowableBuffer[T]) Clear() {
	clear(g.data[:g.used])
	g.used = 0
	g.Shrink()
}

// Join appends items, growing as needed.
func (g *GrowableBuffer[T]) Join(items ...T) {
	g.ensure(g.used + len(items))
	copy(g.data[g.used:], items)
	g.used += len(items)
}

// Len returns the number of elements in use.
func (g *GrowableBuffer[T]) Len() int { return g.used }

// Cap returns the number of elements that fit without resizing.
func (g *GrowableBuffer[T]) Cap() int { return len(g.data) }

func (g *GrowableBuffer[T]) Reserved() int { return g.reserved }

func (g *GrowableBuffer[T]) Empty() bool { return g.used == 0 }

// Slice exposes the used elements. The slice aliases the buffer until the
// next resize.
func (g *GrowableBuffer[T]) Slice() []T { return g.data[:g.used] }

// Release drops the storage.
func (g *GrowableBuffer[T]) Release() {
	if base, n := regionOf(g.data); n > 0 {
		g.tracker.Free(base)
	}
	g.data = nil
	g.used = 0
}

// EqualGrowable compares the used elements of a and b byte for byte.
func EqualGrowable[T any](a, b *GrowableBuffer[T]) bool {
	if a.used != b.used {
		return false
	}
	return equalRaw(a.Slice(), b.Slice())
}

// EqualFixedGrowable compares a FixedBuffer with the used elements of a
// GrowableBuffer.
func EqualFixedGrowable[T any](f *FixedBuffer[T], g *GrowableBuffer[T]) bool {
	if f.Len() != g.used {
		return false
	}
	return equalRaw(f.Slice(), g.Slice())
}

// AppendString appends the bytes of s.
func AppendString(g *GrowableBuffer[byte], s string) {
	g.Join([]byte(s)...)
}
