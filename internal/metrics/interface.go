package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncGamesRecorded()
	IncGamesReversed()
	IncDecayRuns()
	AddRatingsDecayed(n int)
	ObserveEngineOpDuration(op string, seconds float64)
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(seconds float64)
}
