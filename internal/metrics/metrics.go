// Package metrics registers the Prometheus counters tracked during
// simulation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InstrumentMonths counts instrument-month valuations across all runs.
	InstrumentMonths = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fisim_instrument_months_total",
		Help: "Number of instrument-months valuated.",
	})

	// SimulationRuns counts simulation runs by scenario and outcome.
	SimulationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fisim_simulation_runs_total",
		Help: "Number of simulation runs by scenario and status.",
	}, []string{"scenario", "status"})
)
