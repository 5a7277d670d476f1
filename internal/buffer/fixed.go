package buffer

import (
	"unsafe"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/memory"
	"github.com/rs/zerolog"
)

// FixedBuffer is a bounds-checked array whose length never changes.
//
// A FixedBuffer is not safe for concurrent use.
type FixedBuffer[T any] struct {
	data    []T
	logger  zerolog.Logger
	tracker *memory.Tracker
}

// NewFixed allocates a zeroed buffer of the given number of elements.
func NewFixed[T any](elements int, opts ...memory.Option) (*FixedBuffer[T], error) {
	o := memory.Resolve(opts...)
	if elements < 0 {
		return nil, errors.Report(o.Logger, errors.Newf(errors.ErrorTypeGeometry, "FixedBuffer.Create",
			"negative element count %d", elements))
	}
	b := &FixedBuffer[T]{
		data:    make([]T, elements),
		logger:  o.Logger,
		tracker: o.Tracker,
	}
	if base, n := regionOf(b.data); n > 0 {
		b.tracker.Alloc(base, n)
	}
	return b, nil
}

// NewFixedFrom allocates a buffer holding a copy of src.
func NewFixedFrom[T any](src []T, opts ...memory.Option) *FixedBuffer[T] {
	b := errors.Must(NewFixed[T](len(src), opts...))
	copy(b.data, src)
	return b
}

// FixedFromGrowable copies the used elements of g into a new FixedBuffer.
func FixedFromGrowable[T any](g *GrowableBuffer[T], opts ...memory.Option) *FixedBuffer[T] {
	return NewFixedFrom(g.Slice(), opts...)
}

func (b *FixedBuffer[T]) outOfBounds(op string, idx int) error {
	return errors.Report(b.logger, errors.Newf(errors.ErrorTypeBounds, op,
		"index %d >= %d", idx, len(b.data)).
		WithContext("index", idx).
		WithContext("elements", len(b.data)))
}

// At returns a pointer to element idx.
func (b *FixedBuffer[T]) At(idx int) (*T, error) {
	if idx < 0 || idx >= len(b.data) {
		return nil, b.outOfBounds("FixedBuffer.At", idx)
	}
	return &b.data[idx], nil
}

// Set stores v at idx.
func (b *FixedBuffer[T]) Set(idx int, v T) error {
	if idx < 0 || idx >= len(b.data) {
		return b.outOfBounds("FixedBuffer.Set", idx)
	}
	b.data[idx] = v
	return nil
}

func (b *FixedBuffer[T]) Len() int { return len(b.data) }

// ElementSize returns the size of one element in bytes.
func (b *FixedBuffer[T]) ElementSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// SizeBytes returns Len() * ElementSize().
func (b *FixedBuffer[T]) SizeBytes() int { return len(b.data) * b.ElementSize() }

// Slice exposes the elements. The slice aliases the buffer.
func (b *FixedBuffer[T]) Slice() []T { return b.data }

// Clear zero-fills every element.
func (b *FixedBuffer[T]) Clear() { clear(b.data) }

// Release drops the storage. The buffer has zero length afterwards.
func (b *FixedBuffer[T]) Release() {
	if base, n := regionOf(b.data); n > 0 {
		b.tracker.Free(base)
	}
	b.data = nil
}

// CopyFixed copies src into dst. Both must have the same length.
func CopyFixed[T any](dst, src *FixedBuffer[T]) error {
	if dst.Len() != src.Len() {
		return errors.Report(dst.logger, errors.Newf(errors.ErrorTypeShape, "FixedBuffer.Copy",
			"destination has %d elements, source has %d", dst.Len(), src.Len()))
	}
	copy(dst.data, src.data)
	return nil
}

// EqualFixed compares two buffers byte for byte. Buffers of different
// length are never equal.
func EqualFixed[T any](a, b *FixedBuffer[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	return equalRaw(a.data, b.data)
}
