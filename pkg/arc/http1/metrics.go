//go:build prometheus

package http1

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for head parsing. Compiled in only with the
// "prometheus" build tag; the default build uses no-op shims.

const (
	outcomeDone  = "done"
	outcomeError = "error"
)

var (
	headsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arc",
			Subsystem: "http1",
			Name:      "heads_total",
			Help:      "Total number of request heads parsed, by outcome",
		},
		[]string{"outcome"},
	)

	headBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arc",
			Subsystem: "http1",
			Name:      "head_bytes_total",
			Help:      "Total request-head bytes consumed, by outcome",
		},
		[]string{"outcome"},
	)

	headSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "arc",
			Subsystem: "http1",
			Name:      "head_size_bytes",
			Help:      "Size distribution of completed request heads",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 9), // 64B .. 16KB
		},
	)
)

// observeHead records the outcome and size of one head parse.
func observeHead(outcome string, size int) {
	headsTotal.WithLabelValues(outcome).Inc()
	headBytesTotal.WithLabelValues(outcome).Add(float64(size))

	if outcome == outcomeDone {
		headSizeBytes.Observe(float64(size))
	}
}
