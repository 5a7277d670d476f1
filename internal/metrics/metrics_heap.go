package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HeapBytes tracks live bytes recorded by heap trackers
	HeapBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slabkit_heap_bytes",
			Help: "Live bytes held by tracked slabs and buffers",
		},
	)

	// HeapCallsTotal counts tracked allocator calls
	HeapCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_heap_calls_total",
			Help: "Total number of tracked allocator calls",
		},
		[]string{"call"}, // "alloc", "realloc", "free"
	)
)
