package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the outcome label.
const (
	OutcomeSuccess     = "success"
	OutcomeUpstream    = "upstream_error"
	OutcomeBreakerOpen = "breaker_open"
	OutcomeMalformed   = "malformed"
	OutcomeCanceled    = "canceled"
)

var (
	// FetchTotal counts catalog fetches by outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetch_total",
			Help: "Total number of catalog fetches by outcome",
		},
		[]string{"outcome"},
	)

	// FetchDuration observes catalog fetch latency, including decoding.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Duration of catalog fetches in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	// RecordsSkipped counts catalog records dropped at ingestion.
	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_records_skipped_total",
			Help: "Total number of catalog records skipped because they failed to decode or validate",
		},
		[]string{"reason"},
	)
)
