package vars

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirrors the teacher's pkg/middleware/metrics.go: a handful of
// package-level prometheus collectors registered once, updated from the
// scheduler's hot path. Unlike an HTTP middleware there's no per-request
// registry to thread through, so these are plain package vars rather than
// a struct a caller constructs.
var (
	drainsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vars",
		Name:      "drains_total",
		Help:      "Total number of scheduler drains run.",
	})
	drainQueueDepth = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vars",
		Name:      "drain_queue_depth",
		Help:      "Number of modify closures run per drain.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	animationsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vars",
		Name:      "animations_active",
		Help:      "Number of animations still running after the last tick.",
	})
	hookPanicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vars",
		Name:      "hook_panics_total",
		Help:      "Total number of hook or modify-closure panics recovered.",
	})
	contextualizedCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vars",
		Name:      "contextualized_cache_entries",
		Help:      "Total entries across all Contextualized variables' per-context caches.",
	})
)

func init() {
	prometheus.MustRegister(
		drainsTotal,
		drainQueueDepth,
		animationsActive,
		hookPanicsTotal,
		contextualizedCacheSize,
	)
}

func metricsObserveDrain(queueLen int) {
	drainsTotal.Inc()
	drainQueueDepth.Observe(float64(queueLen))
}

func metricsSetAnimationsActive(n int) {
	animationsActive.Set(float64(n))
}

func metricsHookPanic() {
	hookPanicsTotal.Inc()
}

func metricsContextualizedCacheDelta(delta int) {
	contextualizedCacheSize.Add(float64(delta))
}
