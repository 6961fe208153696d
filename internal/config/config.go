package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN"),
			ChannelID: getEnv("SLACK_CHANNEL_ID"),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL"),
			SessionTTL: getEnvDuration("SESSION_TTL", 10*time.Minute),
		},
		AdminPhone: getEnv("ADMIN_PHONE_NUMBER"),
		ProjectID:  getEnv("GCP_PROJECT"),
		Rating: RatingConfig{
			BasePoints:       getEnvFloat("RATING_BASE_POINTS", 1000),
			RatingFactor:     getEnvFloat("RATING_FACTOR", 400),
			KFactor:          getEnvFloat("RATING_K_FACTOR", 3),
			MinRating:        getEnvFloat("RATING_MIN", 100),
			MaxRating:        getEnvFloat("RATING_MAX", 3000),
			ResolveThreshold: getEnvFloat("RESOLVE_THRESHOLD", 0.75),
			MaxGameAge:       getEnvDuration("GAME_MAX_AGE", 60*time.Minute),
			DecayAfter:       getEnvDuration("DECAY_AFTER", 720*time.Hour),
			DecayFactor:      getEnvFloat("DECAY_FACTOR", 0.97),
		},
	}
	return cfg
}

// getEnvFloat reads an optional float env var, falling back to the default.
func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("Error: Environment variable %s is not a valid number: %s", key, value)
	}
	return f
}

// getEnvDuration reads an optional duration env var, falling back to the default.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Error: Environment variable %s is not a valid duration: %s", key, value)
	}
	return d
}
