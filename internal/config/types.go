package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	Redis         RedisConfig
	Rating        RatingConfig
	AdminPhone    string
	ProjectID     string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// Slash-command signature verification happens at the chat gateway in
// front of this service, so no signing secret is needed here.
type SlackConfig struct {
	Token     string
	ChannelID string
}

type RedisConfig struct {
	URL        string
	SessionTTL time.Duration
}

// RatingConfig carries the tunable coefficients of the rating model.
// Load applies the documented default when the corresponding env var is unset.
type RatingConfig struct {
	// BasePoints is the starting rating for a newly enrolled player. Default 1000.
	BasePoints float64
	// RatingFactor is the spread divisor of the logistic expectation. Default 400.
	RatingFactor float64
	// KFactor scales the per-game rating change. Default 3.
	KFactor float64
	// MinRating and MaxRating bound every stored rating value. Defaults 100 / 3000.
	MinRating float64
	MaxRating float64
	// ResolveThreshold is the minimum name similarity accepted by the
	// fuzzy resolver. Default 0.75.
	ResolveThreshold float64
	// MaxGameAge is how long a reported game stays undoable for
	// non-admins. Default 60m.
	MaxGameAge time.Duration
	// DecayAfter is the inactivity window before a rating decays. Default 720h.
	DecayAfter time.Duration
	// DecayFactor multiplies an inactive rating once per decay run. Default 0.97.
	DecayFactor float64
}
