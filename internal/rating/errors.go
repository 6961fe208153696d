package rating

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// The engine reports every domain failure as one of the types below so the
// transport layer can render a user message without string matching.
var (
	// ErrPlayerNotInGame is returned when the reporter of a game is
	// neither one of its participants nor the admin.
	ErrPlayerNotInGame = errors.New("only participants can report or undo a game")
	// ErrAdminPermissionRequired is returned when a non-admin calls an
	// admin-only operation.
	ErrAdminPermissionRequired = errors.New("admin permission required")
)

// PlayerNotFoundError carries the names or identity tokens that could not be
// resolved to a registered player.
type PlayerNotFoundError struct {
	Names []string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player not found: %s", strings.Join(e.Names, ", "))
}

// PlayerAlreadyExistsError is returned when registering an identity token
// that is already bound to a player.
type PlayerAlreadyExistsError struct {
	Name string
}

func (e *PlayerAlreadyExistsError) Error() string {
	return fmt.Sprintf("player %s already exists", e.Name)
}

// PlayerNotInRatingError enumerates the players that have not opted into
// the ranking.
type PlayerNotInRatingError struct {
	Names []string
}

func (e *PlayerNotInRatingError) Error() string {
	return fmt.Sprintf("player not in rating: %s", strings.Join(e.Names, ", "))
}

// PlayerAlreadyInRatingError is returned when enrolling a player twice.
type PlayerAlreadyInRatingError struct {
	Name string
}

func (e *PlayerAlreadyInRatingError) Error() string {
	return fmt.Sprintf("player %s is already in the rating", e.Name)
}

// GameNotFoundError is returned when no match exists for the given ID.
type GameNotFoundError struct {
	MatchID string
}

func (e *GameNotFoundError) Error() string {
	return fmt.Sprintf("game %s not found", e.MatchID)
}

// GameTooOldError is returned when a non-admin tries to undo a game outside
// the configured undo window.
type GameTooOldError struct {
	MatchID string
	Age     time.Duration
}

func (e *GameTooOldError) Error() string {
	return fmt.Sprintf("game %s is too old to undo (age %s)", e.MatchID, e.Age.Round(time.Minute))
}

// GameTypeNotSupportedError is returned for a discipline tag outside the
// closed enumeration.
type GameTypeNotSupportedError struct {
	Discipline string
}

func (e *GameTypeNotSupportedError) Error() string {
	return fmt.Sprintf("game type %q is not supported", e.Discipline)
}
