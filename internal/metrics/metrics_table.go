package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReftableInsertsTotal counts reference table writes by kind
	ReftableInsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_reftable_inserts_total",
			Help: "Total number of reference table writes",
		},
		[]string{"kind"}, // "insert", "upsert"
	)

	// ReftableDeletesTotal counts associations removed from reference tables
	ReftableDeletesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slabkit_reftable_deletes_total",
			Help: "Total number of reference table deletions",
		},
	)

	// ReftableChainLength observes the length of a chain after a new node is appended
	ReftableChainLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slabkit_reftable_chain_length",
			Help:    "Length of the bucket chain after a new reference table node is appended",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)
)
