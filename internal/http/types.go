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

type Server struct {
	Engine         *rating.Engine
	Store          rating.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Renderer       *render.Renderer
	Sessions       *session.Store
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
