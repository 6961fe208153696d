package rating

import "time"

// Store defines the persistence operations the engine relies on. Lookups
// return (nil, nil) when no row exists; only storage-level failures surface
// as errors. The composite match operations are atomic: the match row and
// both rating rows commit or roll back together.
type Store interface {
	CreatePlayer(p Player) error
	GetPlayerByPhone(phone string) (*Player, error)
	GetPlayerByID(id string) (*Player, error)
	GetAllPlayers() ([]Player, error)
	DeletePlayer(id string) error

	CreateRating(r Rating) error
	GetRating(playerID string) (*Rating, error)
	UpdateRating(r Rating) error
	DeleteRating(playerID string) error
	GetAllRatings() ([]Rating, error)
	GetStaleRatings(olderThan time.Time) ([]Rating, error)

	GetMatch(id string) (*Match, error)
	GetAllMatches() ([]Match, error)
	// CreateMatchWithRatings generates a collision-free match ID, inserts
	// the match and writes both updated ratings in one transaction. The
	// returned match carries the generated ID.
	CreateMatchWithRatings(m Match, ratingA, ratingB Rating) (Match, error)
	// DeleteMatchWithRatings deletes the match and writes both reversed
	// ratings in one transaction.
	DeleteMatchWithRatings(matchID string, ratingA, ratingB Rating) error

	ListRatings() ([]LeaderboardEntry, error)
}
