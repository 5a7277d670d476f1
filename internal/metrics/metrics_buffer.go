package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GrowableResizesTotal counts growable buffer reallocations by direction
	GrowableResizesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_growable_resizes_total",
			Help: "Total number of growable buffer reallocations",
		},
		[]string{"direction"}, // "grow", "shrink"
	)
)
