package cvector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// batches counts population and destruction batches by operation and
	// scheduling mode (serial or parallel).
	batches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gopoisson_cvector_batches_total",
		Help: "Element batches processed by vectors, by operation and mode",
	}, []string{"op", "mode"})

	// rollbacks counts failed population batches that were unwound.
	rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gopoisson_cvector_rollbacks_total",
		Help: "Population batches rolled back after an element failure",
	}, []string{"op"})

	batchElements = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gopoisson_cvector_batch_elements",
		Help:    "Number of elements per population batch",
		Buckets: prometheus.ExponentialBuckets(1, 10, 8),
	})
)
