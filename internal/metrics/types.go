package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed implementation of the Metrics interface.
type Service struct {
	GamesRecorded      prometheus.Counter
	GamesReversed      prometheus.Counter
	DecayRuns          prometheus.Counter
	RatingsDecayed     prometheus.Counter
	EngineOpDuration   *prometheus.HistogramVec
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
