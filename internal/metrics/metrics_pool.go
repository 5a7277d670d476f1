package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LiveSetPoolOpsTotal counts live-set pool operations
	LiveSetPoolOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_liveset_pool_ops_total",
			Help: "Total number of slab live-set pool operations",
		},
		[]string{"op"}, // "acquire", "recycle", "drop", "new"
	)
)
