package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bvqclub/ratingbot/internal/config"
	"github.com/bvqclub/ratingbot/internal/database"
	server "github.com/bvqclub/ratingbot/internal/http"
	"github.com/bvqclub/ratingbot/internal/metrics"
	slacknotifier "github.com/bvqclub/ratingbot/internal/notifier/slack"
	"github.com/bvqclub/ratingbot/internal/pubsub"
	"github.com/bvqclub/ratingbot/internal/rating"
	"github.com/bvqclub/ratingbot/internal/render"
	"github.com/bvqclub/ratingbot/internal/session"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	store := rating.NewStore(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	engine := rating.NewEngine(
		store,
		rating.NewCalculator(cfg.Rating.RatingFactor, cfg.Rating.KFactor),
		rating.NewResolver(cfg.Rating.ResolveThreshold),
		metricsSvc,
		rating.Config{
			BasePoints:  cfg.Rating.BasePoints,
			MinRating:   cfg.Rating.MinRating,
			MaxRating:   cfg.Rating.MaxRating,
			MaxGameAge:  cfg.Rating.MaxGameAge,
			DecayAfter:  cfg.Rating.DecayAfter,
			DecayFactor: cfg.Rating.DecayFactor,
			AdminPhone:  cfg.AdminPhone,
		},
	)

	notifier := slacknotifier.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	renderer := render.NewRenderer()
	sessions, err := session.New(cfg.Redis.URL, cfg.Redis.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %s", err)
	}
	defer sessions.Close()
	pubsubClient := pubsub.New(cfg.ProjectID)

	s := server.NewServer(
		engine,
		store,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
		renderer,
		sessions,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
