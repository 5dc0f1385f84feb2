// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forexradar_records_requests_total",
		Help: "Records API attempts by query and outcome",
	}, []string{"query", "outcome"})

	RecordsRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forexradar_records_retries_total",
		Help: "Records API retries after a network failure",
	}, []string{"query"})

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forexradar_refresh_duration_seconds",
		Help:    "Duration of a dashboard refresh cycle",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	TotalProfit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forexradar_total_profit_usd",
		Help: "Realized profit over the fetched history at the current settings",
	})

	SkippedTrades = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forexradar_skipped_trades",
		Help: "Closed trades left out of the last profit calculation",
	})

	LastRefresh = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forexradar_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful refresh",
	})
)
