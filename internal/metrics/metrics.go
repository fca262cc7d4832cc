// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics provides Prometheus metrics for tvgmatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution metrics
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgmatch_resolutions_total",
		Help: "Channel resolutions by kind and outcome",
	}, []string{"kind", "outcome"}) // kind=identifier|logo, outcome=exact|fuzzy|none|matched|sentinel

	// Index metrics
	indexKeys = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvgmatch_index_keys",
		Help: "Number of lookup keys in the last built index",
	}, []string{"index"}) // index=identifier|logo

	indexSkipped = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvgmatch_index_skipped",
		Help: "Malformed entries skipped while building the last index",
	}, []string{"index"})

	// Upstream metrics
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgmatch_fetch_total",
		Help: "Upstream fetches by source and status",
	}, []string{"source", "status"}) // source=vocabulary|logos|schedule, status=success|error

	probeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgmatch_probe_total",
		Help: "Stream template probes by outcome",
	}, []string{"outcome"}) // outcome=found|missing|error

	// Run metrics
	playlistEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvgmatch_playlist_entries",
		Help: "Number of entries written to the playlist in the last run",
	})

	runDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvgmatch_run_duration_seconds",
		Help: "Wall time of the last batch run",
	})

	lastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvgmatch_last_run_timestamp_seconds",
		Help: "Unix time of the last successful batch run",
	})
)

// RecordIdentifier counts an identifier resolution by confidence.
func RecordIdentifier(confidence string) {
	resolutionsTotal.WithLabelValues("identifier", confidence).Inc()
}

// RecordLogo counts a logo resolution.
func RecordLogo(matched bool) {
	outcome := "sentinel"
	if matched {
		outcome = "matched"
	}
	resolutionsTotal.WithLabelValues("logo", outcome).Inc()
}

// RecordIndex sets the size gauges of a freshly built index.
func RecordIndex(index string, keys, skipped int) {
	indexKeys.WithLabelValues(index).Set(float64(keys))
	indexSkipped.WithLabelValues(index).Set(float64(skipped))
}

// RecordFetch counts an upstream fetch.
func RecordFetch(source string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	fetchTotal.WithLabelValues(source, status).Inc()
}

// RecordProbe counts a template probe.
func RecordProbe(outcome string) {
	probeTotal.WithLabelValues(outcome).Inc()
}

// RecordRun sets the run gauges after a successful batch run.
func RecordRun(entries int, took time.Duration, finished time.Time) {
	playlistEntries.Set(float64(entries))
	runDuration.Set(took.Seconds())
	lastRunTimestamp.Set(float64(finished.Unix()))
}
