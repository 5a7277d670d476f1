package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SlabsCreatedTotal counts slabs allocated, standalone or inside a pool
	SlabsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slabkit_slabs_created_total",
			Help: "Total number of slabs allocated",
		},
	)

	// SlabsReleasedTotal counts slabs whose backing storage was released
	SlabsReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slabkit_slabs_released_total",
			Help: "Total number of slabs released",
		},
	)

	// SlabFullTotal counts inserts rejected because the slab had no free chunk
	SlabFullTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slabkit_slab_full_total",
			Help: "Total number of slab inserts rejected because the slab was full",
		},
	)

	// PoolGrowthsTotal counts slabs appended to a pool chain
	PoolGrowthsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slabkit_pool_growths_total",
			Help: "Total number of slabs appended to pool chains",
		},
	)

	// PoolCacheLookupsTotal counts pool cache lookups by cache and result
	PoolCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_pool_cache_lookups_total",
			Help: "Pool cache lookups by cache (space, owner) and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)
)
