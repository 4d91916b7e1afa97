// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// extractTracerName is the shared OTel tracer name for pipeline operations.
const extractTracerName = "williwaw.extract"

// Package-level Prometheus metrics for extraction runs.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// extractionDuration measures the duration of single-file extractions.
	//
	// Labels:
	//   - status: "success" or "error"
	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "williwaw",
			Subsystem: "extract",
			Name:      "file_duration_seconds",
			Help:      "Duration of single-file extractions in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"status"},
	)

	// extractionsTotal counts file extractions.
	//
	// Labels:
	//   - status: "success", "error", or "cached"
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "williwaw",
			Subsystem: "extract",
			Name:      "files_total",
			Help:      "Total number of file extractions.",
		},
		[]string{"status"},
	)

	// degradedNodesTotal counts nodes that lost fidelity during extraction.
	//
	// Labels:
	//   - kind: "unsupported", "fallback", or "unknown"
	degradedNodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "williwaw",
			Subsystem: "extract",
			Name:      "degraded_nodes_total",
			Help:      "Total component or IR nodes extracted without full fidelity.",
		},
		[]string{"kind"},
	)

	// detectorCacheQueries counts detector query-cache traffic across runs.
	//
	// Labels:
	//   - result: "hit" or "miss"
	detectorCacheQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "williwaw",
			Subsystem: "detect",
			Name:      "cache_queries_total",
			Help:      "Total detector query-cache lookups.",
		},
		[]string{"result"},
	)

	// activeExtractions tracks the number of in-flight file extractions.
	activeExtractions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "williwaw",
			Subsystem: "extract",
			Name:      "active_files",
			Help:      "Number of file extractions currently in flight.",
		},
	)
)

// recordExtractionMetrics records the one-shot metrics for a completed
// file extraction. summary may be nil on the error path.
func recordExtractionMetrics(duration time.Duration, summary *WarningSummary, hits, misses uint64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	extractionDuration.WithLabelValues(status).Observe(duration.Seconds())
	extractionsTotal.WithLabelValues(status).Inc()
	detectorCacheQueries.WithLabelValues("hit").Add(float64(hits))
	detectorCacheQueries.WithLabelValues("miss").Add(float64(misses))

	if summary != nil {
		degradedNodesTotal.WithLabelValues("unsupported").Add(float64(summary.Unsupported))
		degradedNodesTotal.WithLabelValues("fallback").Add(float64(summary.Fallback))
		degradedNodesTotal.WithLabelValues("unknown").Add(float64(summary.Unknown))
	}
}
