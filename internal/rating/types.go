package rating

import (
	"fmt"
	"time"
)

// Discipline identifies the ruleset a match was played under.
type Discipline string

const (
	// DisciplineNormal is a plain race where raw scores feed the rating.
	DisciplineNormal Discipline = "Normal"
	// DisciplineStraight is 14.1 continuous straight pool; scores are
	// normalized before they feed the rating.
	DisciplineStraight Discipline = "14.1"
)

// ParseDiscipline validates a discipline tag received from the transport layer.
func ParseDiscipline(s string) (Discipline, error) {
	switch Discipline(s) {
	case DisciplineNormal:
		return DisciplineNormal, nil
	case DisciplineStraight:
		return DisciplineStraight, nil
	}
	return "", &GameTypeNotSupportedError{Discipline: s}
}

// Player is a registered club member. The phone number is the unique
// identity token; the display name is not required to be unique.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// Rating is the skill estimate of a player that opted into the ranking.
// WinningQuote is nil until at least one game is recorded.
type Rating struct {
	PlayerID     string    `json:"player_id"`
	Rating       float64   `json:"rating"`
	WinningQuote *float64  `json:"winning_quote"`
	GamesWon     int       `json:"games_won"`
	GamesLost    int       `json:"games_lost"`
	LastChange   time.Time `json:"last_change"`
}

// Match is a recorded game. RatingChange holds the delta that was actually
// applied when the match was created; undoing the match reverses exactly
// this value, never a recomputed one.
type Match struct {
	ID           string     `json:"id"`
	PlayerA      string     `json:"player_a"`
	PlayerB      string     `json:"player_b"`
	ScoreA       int        `json:"score_a"`
	ScoreB       int        `json:"score_b"`
	RaceTo       int        `json:"race_to"`
	Discipline   Discipline `json:"discipline"`
	RatingChange float64    `json:"rating_change"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GameResult is what AddGame returns for each recorded game.
type GameResult struct {
	MatchID      string  `json:"match_id"`
	RatingChange float64 `json:"rating_change"`
}

// LeaderboardEntry is one row of the ordered rating table.
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	PlayerID     string    `json:"player_id"`
	Name         string    `json:"name"`
	Rating       float64   `json:"rating"`
	WinningQuote *float64  `json:"winning_quote"`
	GamesWon     int       `json:"games_won"`
	GamesLost    int       `json:"games_lost"`
	LastChange   time.Time `json:"last_change"`
}

// Snapshot is the full rating and match state, read for archival export.
type Snapshot struct {
	Ratings   []Rating  `json:"ratings"`
	Matches   []Match   `json:"matches"`
	CreatedAt time.Time `json:"created_at"`
}

// formatMatchID renders the short match identifier, e.g. "#042137".
func formatMatchID(n int) string {
	return fmt.Sprintf("#%06d", n)
}
