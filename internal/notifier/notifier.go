package notifier

import (
	"github.com/bvqclub/ratingbot/internal/rating"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded and undone games
	SendGameRecorded(result rating.GameResult, nameA, nameB string, scoreA, scoreB int, dryRun bool) error
	SendGameReversed(matchID string, dryRun bool) error
	// For the leaderboard, as text blocks or as a rendered image
	SendLeaderboard(entries []rating.LeaderboardEntry, dryRun bool) error
	SendLeaderboardImage(png []byte, dryRun bool) error
	// For completed decay passes
	SendDecayNotice(count int, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []rating.LeaderboardEntry) (any, error)
	FormatGameRecordedResponse(result rating.GameResult, nameA, nameB string, scoreA, scoreB int) (any, error)
	FormatErrorResponse(err error) (any, error)
}
