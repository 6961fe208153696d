package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		GamesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_games_recorded_total",
			Help: "The total number of games recorded through the rating engine.",
		}),
		GamesReversed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_games_reversed_total",
			Help: "The total number of games undone and reversed.",
		}),
		DecayRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_decay_runs_total",
			Help: "The total number of decay passes executed.",
		}),
		RatingsDecayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_ratings_decayed_total",
			Help: "The total number of individual ratings reduced by decay.",
		}),
		EngineOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rating_engine_op_duration_seconds",
			Help:    "The duration of individual rating engine operations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_notifications_sent_total",
			Help: "The total number of chat notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_notifications_failed_total",
			Help: "The total number of chat notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rating_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesRecorded,
		s.GamesReversed,
		s.DecayRuns,
		s.RatingsDecayed,
		s.EngineOpDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesRecorded() {
	s.GamesRecorded.Inc()
}

func (s *Service) IncGamesReversed() {
	s.GamesReversed.Inc()
}

func (s *Service) IncDecayRuns() {
	s.DecayRuns.Inc()
}

func (s *Service) AddRatingsDecayed(n int) {
	s.RatingsDecayed.Add(float64(n))
}

func (s *Service) ObserveEngineOpDuration(op string, seconds float64) {
	s.EngineOpDuration.WithLabelValues(op).Observe(seconds)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
