package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContractViolationsTotal counts contract violations by error type
	ContractViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_contract_violations_total",
			Help: "Total number of contract violations reported",
		},
		[]string{"type"},
	)
)

var (
	// LogEntriesTotal counts log entries by level
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slabkit_log_entries_total",
			Help: "Total number of log entries by level",
		},
		[]string{"level"},
	)
)
