// Package reftable implements a chained hash table keyed by pointer
// identity. Nodes come from a memory.Pool and the bucket heads live in a
// buffer.FixedBuffer, so the table never rehashes: the width chosen at
// construction is fixed for its lifetime.
package reftable

import (
	"iter"
	"unsafe"

	"github.com/23skdu/slabkit/internal/buffer"
	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/hash"
	"github.com/23skdu/slabkit/internal/memory"
	"github.com/23skdu/slabkit/internal/metrics"
	"github.com/rs/zerolog"
)

type node[K, V any] struct {
	key   *K
	value *V
	next  *node[K, V]
}

// Table maps *K to *V by address. Two distinct keys with equal contents are
// distinct entries.
//
// A Table is not safe for concurrent use.
type Table[K, V any] struct {
	nodes    *memory.Pool[node[K, V]]
	buckets  *buffer.FixedBuffer[*node[K, V]]
	width    int
	count    int
	strategy hash.Strategy
	logger   zerolog.Logger
}

// New creates a table with width buckets. The node pool grows in slabs of
// width nodes.
func New[K, V any](width int, opts ...Option) (*Table[K, V], error) {
	o := resolve(opts)
	if width <= 0 {
		return nil, errors.Report(o.logger, errors.Newf(errors.ErrorTypeGeometry, "Table.Create",
			"width must be positive, got %d", width).WithContext("width", width))
	}

	if o.strategy.Accumulate == nil {
		return nil, errors.Report(o.logger, errors.Newf(errors.ErrorTypeConfiguration, "Table.Create",
			"hash strategy %q has no accumulate function", o.strategy.Name))
	}

	memOpts := []memory.Option{memory.WithLogger(o.logger), memory.WithTracker(o.tracker)}
	nodes, err := memory.NewPool[node[K, V]](width, memOpts...)
	if err != nil {
		return nil, err
	}
	buckets, err := buffer.NewFixed[*node[K, V]](width, memOpts...)
	if err != nil {
		nodes.Release()
		return nil, err
	}

	return &Table[K, V]{
		nodes:    nodes,
		buckets:  buckets,
		width:    width,
		strategy: o.strategy,
		logger:   o.logger,
	}, nil
}

func (t *Table[K, V]) bucketIndex(key *K) int {
	h := hash.GenerateAddress(uintptr(unsafe.Pointer(key)), t.strategy)
	return int(h % uint32(t.width))
}

// head returns the bucket slot for key. The index is reduced modulo the
// width, so the lookup cannot miss.
func (t *Table[K, V]) head(key *K) **node[K, V] {
	return errors.Must(t.buckets.At(t.bucketIndex(key)))
}

// Insert associates value with key. An existing association for the same
// key pointer is overwritten.
func (t *Table[K, V]) Insert(key *K, value *V) {
	slot := t.head(key)

	var tail *node[K, V]
	length := 0
	for n := *slot; n != nil; n = n.next {
		if n.key == key {
			n.value = value
			metrics.ReftableInsertsTotal.WithLabelValues("upsert").Inc()
			return
		}
		tail = n
		length++
	}

	n := t.nodes.Insert(&node[K, V]{key: key, value: value})
	if tail == nil {
		*slot = n
	} else {
		tail.next = n
	}
	t.count++

	metrics.ReftableInsertsTotal.WithLabelValues("insert").Inc()
	metrics.ReftableChainLength.Observe(float64(length + 1))
}

// Find returns the value stored for key, or nil.
func (t *Table[K, V]) Find(key *K) *V {
	for n := *t.head(key); n != nil; n = n.next {
		if n.key == key {
			return n.value
		}
	}
	return nil
}

// Contains reports whether key has an association.
func (t *Table[K, V]) Contains(key *K) bool {
	for n := *t.head(key); n != nil; n = n.next {
		if n.key == key {
			return true
		}
	}
	return false
}

// Delete removes the association for key and returns its node to the pool.
// It reports whether key was present.
func (t *Table[K, V]) Delete(key *K) (bool, error) {
	slot := t.head(key)

	var prev *node[K, V]
	for n := *slot; n != nil; prev, n = n, n.next {
		if n.key != key {
			continue
		}
		if prev == nil {
			*slot = n.next
		} else {
			prev.next = n.next
		}
		if err := t.nodes.Remove(&n); err != nil {
			return false, err
		}
		t.count--
		metrics.ReftableDeletesTotal.Inc()
		return true, nil
	}
	return false, nil
}

// Iterate calls fn once for every association, bucket by bucket. fn must
// not modify the table.
func (t *Table[K, V]) Iterate(fn func(key *K, value *V)) {
	for _, n := range t.buckets.Slice() {
		for ; n != nil; n = n.next {
			fn(n.key, n.value)
		}
	}
}

// All returns an iterator over every association.
func (t *Table[K, V]) All() iter.Seq2[*K, *V] {
	return func(yield func(*K, *V) bool) {
		for _, n := range t.buckets.Slice() {
			for ; n != nil; n = n.next {
				if !yield(n.key, n.value) {
					return
				}
			}
		}
	}
}

// Len returns the number of associations.
func (t *Table[K, V]) Len() int { return t.count }

func (t *Table[K, V]) Width() int { return t.width }

func (t *Table[K, V]) Strategy() hash.Strategy { return t.strategy }

// LoadFactor returns Len()/Width().
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.count) / float64(t.width)
}

// Release frees the node pool and the bucket array. The table must not be
// used afterwards.
func (t *Table[K, V]) Release() {
	t.nodes.Release()
	t.buckets.Release()
	t.count = 0
	t.logger.Debug().Int("width", t.width).Msg("reference table released")
}
