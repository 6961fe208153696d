package http

import (
	"net/http"

	"github.com/bvqclub/ratingbot/internal/config"
	"github.com/bvqclub/ratingbot/internal/metrics"
	"github.com/bvqclub/ratingbot/internal/notifier"
	"github.com/bvqclub/ratingbot/internal/pubsub"
	"github.com/bvqclub/ratingbot/internal/rating"
	"github.com/bvqclub/ratingbot/internal/render"
	"github.com/bvqclub/ratingbot/internal/session"
)

func NewServer(engine *rating.Engine, store rating.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, renderer *render.Renderer, sessions *session.Store, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Engine:         engine,
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Renderer:       renderer,
		Sessions:       sessions,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/register", Chain(s.RegisterPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/remove", Chain(s.RemovePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/ratings", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/enroll", Chain(s.EnrollHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/withdraw", Chain(s.WithdrawHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/adjust", Chain(s.AdjustRatingHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/report", Chain(s.ReportGameHandler(), paramsMiddleware))
	s.Router.Handle("/matches/undo", Chain(s.UndoGameHandler(), paramsMiddleware))
	s.Router.Handle("/decay", Chain(s.DecayHandler(), paramsMiddleware))
	s.Router.Handle("/export", Chain(s.ExportHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard/announce", Chain(s.AnnounceLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/game-events", Chain(s.GameEventPushHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/enroll", Chain(s.EnrollCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/report", Chain(s.ReportCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/undo", Chain(s.UndoCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/adjust", Chain(s.AdjustCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
