// Package metrics holds the Prometheus collectors describing an analysis
// run. hydrostats is a batch job, so the registry is written out in
// node_exporter textfile format at the end of a run instead of being scraped.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds only hydrostats collectors, no Go runtime or process metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	ObservationsIngested = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrostats_observations_ingested_total",
			Help: "Daily observations read from station records",
		},
		[]string{"station"},
	)

	MissingObservations = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hydrostats_missing_observations",
			Help: "Days without usable discharge, at ingestion and inside the analysis window",
		},
		[]string{"station", "stage"},
	)

	PeriodsComputed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrostats_periods_computed_total",
			Help: "Statistics rows computed, by partition scheme",
		},
		[]string{"station", "scheme"},
	)

	StationAnalysisSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hydrostats_station_analysis_seconds",
			Help:    "Time spent reading and analyzing one station",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"station"},
	)

	NWISRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrostats_nwis_requests_total",
			Help: "USGS water services download attempts",
		},
		[]string{"site", "status"},
	)

	LastRunSuccess = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "hydrostats_last_run_success_timestamp_seconds",
			Help: "Unix time the last successful run finished",
		},
	)
)

// WriteTextfile writes the registry to path in the text exposition format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
