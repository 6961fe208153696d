package rating

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/bvqclub/ratingbot/internal/metrics"
)

// Config carries the rating policy the engine enforces.
type Config struct {
	BasePoints  float64
	MinRating   float64
	MaxRating   float64
	MaxGameAge  time.Duration
	DecayAfter  time.Duration
	DecayFactor float64
	AdminPhone  string
}

// Engine orchestrates player lifecycle, enrollment, game reporting and
// undo, manual adjustment and time decay. It owns all write access to
// ratings and matches; the transport layer only ever passes plain values in
// and renders the typed failures coming back.
type Engine struct {
	store    Store
	calc     *Calculator
	resolver *Resolver
	metrics  metrics.Metrics
	cfg      Config
}

// NewEngine creates a new Engine.
func NewEngine(store Store, calc *Calculator, resolver *Resolver, metricsSvc metrics.Metrics, cfg Config) *Engine {
	return &Engine{
		store:    store,
		calc:     calc,
		resolver: resolver,
		metrics:  metricsSvc,
		cfg:      cfg,
	}
}

// AddPlayer registers a new club member. The phone number is the identity
// token and must be unique; the display name need not be.
func (e *Engine) AddPlayer(name, phone string) (Player, error) {
	defer e.timeOp("add_player")()

	existing, err := e.store.GetPlayerByPhone(phone)
	if err != nil {
		return Player{}, err
	}
	if existing != nil {
		return Player{}, &PlayerAlreadyExistsError{Name: existing.Name}
	}

	player := Player{
		ID:          uuid.NewString(),
		Name:        name,
		PhoneNumber: phone,
	}
	if err := e.store.CreatePlayer(player); err != nil {
		return Player{}, err
	}
	log.Info("Registered new player", "name", name)
	return player, nil
}

// DeletePlayer removes the player bound to the given phone number and, via
// the store's referential policy, their rating. Historical matches are
// retained. Returns the deleted player's name.
func (e *Engine) DeletePlayer(phone string) (string, error) {
	defer e.timeOp("delete_player")()

	player, err := e.store.GetPlayerByPhone(phone)
	if err != nil {
		return "", err
	}
	if player == nil {
		return "", &PlayerNotFoundError{Names: []string{phone}}
	}

	if err := e.store.DeletePlayer(player.ID); err != nil {
		return "", err
	}
	log.Info("Deleted player", "name", player.Name)
	return player.Name, nil
}

// DeletePlayerByName is the admin escape hatch for removing players who are
// unreachable by phone number.
func (e *Engine) DeletePlayerByName(name, requesterPhone string) (string, error) {
	if requesterPhone != e.cfg.AdminPhone {
		return "", ErrAdminPermissionRequired
	}

	players, err := e.store.GetAllPlayers()
	if err != nil {
		return "", err
	}
	player, err := e.resolver.Resolve(name, players)
	if err != nil {
		return "", err
	}

	if err := e.store.DeletePlayer(player.ID); err != nil {
		return "", err
	}
	log.Info("Admin deleted player", "name", player.Name)
	return player.Name, nil
}

// AddPlayerToRating enrolls a registered player into the ranking with the
// configured base points. Not idempotent: a second call fails.
func (e *Engine) AddPlayerToRating(phone string) error {
	defer e.timeOp("add_player_to_rating")()

	player, err := e.store.GetPlayerByPhone(phone)
	if err != nil {
		return err
	}
	if player == nil {
		return &PlayerNotFoundError{Names: []string{phone}}
	}

	existing, err := e.store.GetRating(player.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &PlayerAlreadyInRatingError{Name: player.Name}
	}

	r := Rating{
		PlayerID:   player.ID,
		Rating:     e.cfg.BasePoints,
		LastChange: time.Now(),
	}
	if err := e.store.CreateRating(r); err != nil {
		return err
	}
	log.Info("Enrolled player in rating", "name", player.Name, "base_points", e.cfg.BasePoints)
	return nil
}

// RemovePlayerFromRating drops a player's rating without deleting the
// player record.
func (e *Engine) RemovePlayerFromRating(phone string) error {
	defer e.timeOp("remove_player_from_rating")()

	player, err := e.store.GetPlayerByPhone(phone)
	if err != nil {
		return err
	}
	if player == nil {
		return &PlayerNotFoundError{Names: []string{phone}}
	}

	existing, err := e.store.GetRating(player.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return &PlayerNotInRatingError{Names: []string{player.Name}}
	}

	if err := e.store.DeleteRating(player.ID); err != nil {
		return err
	}
	log.Info("Removed player from rating", "name", player.Name)
	return nil
}

// AddGame records one game between two players resolved by display name.
// The reporter must be one of the participants unless they are the admin.
// The computed delta is applied to both ratings and stored on the match as
// the authoritative reversal value, all in one transaction.
func (e *Engine) AddGame(nameA, nameB string, scoreA, scoreB int, discipline Discipline, reporterPhone string) (GameResult, error) {
	defer e.timeOp("add_game")()

	playerA, playerB, err := e.resolvePair(nameA, nameB)
	if err != nil {
		return GameResult{}, err
	}

	if reporterPhone != e.cfg.AdminPhone &&
		reporterPhone != playerA.PhoneNumber && reporterPhone != playerB.PhoneNumber {
		return GameResult{}, ErrPlayerNotInGame
	}

	ratingA, ratingB, err := e.ratingPair(playerA, playerB)
	if err != nil {
		return GameResult{}, err
	}

	delta, err := e.calc.ComputeDelta(ratingA.Rating, ratingB.Rating, scoreA, scoreB, discipline)
	if err != nil {
		return GameResult{}, err
	}
	// The clamp shrinks the delta itself so the stored value stays exactly
	// what was applied to both sides.
	delta = e.clampDelta(delta, ratingA.Rating, ratingB.Rating)

	now := time.Now()
	applyGame(ratingA, scoreA, scoreB, delta, now)
	applyGame(ratingB, scoreB, scoreA, -delta, now)

	match := Match{
		PlayerA:      playerA.ID,
		PlayerB:      playerB.ID,
		ScoreA:       scoreA,
		ScoreB:       scoreB,
		RaceTo:       maxInt(scoreA, scoreB),
		Discipline:   discipline,
		RatingChange: delta,
		CreatedAt:    now,
	}

	match, err = e.store.CreateMatchWithRatings(match, *ratingA, *ratingB)
	if err != nil {
		return GameResult{}, fmt.Errorf("failed to record game: %w", err)
	}

	e.metrics.IncGamesRecorded()
	log.Info("Recorded game",
		"match_id", match.ID,
		"player_a", playerA.Name, "player_b", playerB.Name,
		"score", fmt.Sprintf("%d:%d", scoreA, scoreB),
		"discipline", discipline,
		"delta", delta,
	)
	return GameResult{MatchID: match.ID, RatingChange: delta}, nil
}

// AddGames records a batch of score pairs between the same two players.
// Each pair is its own atomic game; a failing pair stops the batch and
// returns the results recorded so far alongside the error.
func (e *Engine) AddGames(nameA, nameB string, scores [][2]int, discipline Discipline, reporterPhone string) ([]GameResult, error) {
	results := make([]GameResult, 0, len(scores))
	for _, pair := range scores {
		res, err := e.AddGame(nameA, nameB, pair[0], pair[1], discipline, reporterPhone)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// DeleteGame undoes a recorded game by reversing exactly the stored delta
// and the raw score counters, then deletes the match row. Recomputing the
// delta from current ratings would diverge once other games have moved
// them, so the stored value is authoritative.
func (e *Engine) DeleteGame(matchID, requesterPhone string) error {
	defer e.timeOp("delete_game")()

	match, err := e.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return &GameNotFoundError{MatchID: matchID}
	}

	playerA, err := e.store.GetPlayerByID(match.PlayerA)
	if err != nil {
		return err
	}
	playerB, err := e.store.GetPlayerByID(match.PlayerB)
	if err != nil {
		return err
	}

	isAdmin := requesterPhone == e.cfg.AdminPhone
	isParticipant := (playerA != nil && playerA.PhoneNumber == requesterPhone) ||
		(playerB != nil && playerB.PhoneNumber == requesterPhone)
	if !isAdmin && !isParticipant {
		return ErrPlayerNotInGame
	}

	if age := time.Since(match.CreatedAt); !isAdmin && age > e.cfg.MaxGameAge {
		return &GameTooOldError{MatchID: matchID, Age: age}
	}

	ratingA, err := e.store.GetRating(match.PlayerA)
	if err != nil {
		return err
	}
	ratingB, err := e.store.GetRating(match.PlayerB)
	if err != nil {
		return err
	}
	if ratingA == nil || ratingB == nil {
		return &PlayerNotInRatingError{Names: missingRatingNames(playerA, playerB, match, ratingA, ratingB)}
	}

	now := time.Now()
	applyGame(ratingA, -match.ScoreA, -match.ScoreB, -match.RatingChange, now)
	applyGame(ratingB, -match.ScoreB, -match.ScoreA, match.RatingChange, now)

	if err := e.store.DeleteMatchWithRatings(match.ID, *ratingA, *ratingB); err != nil {
		return fmt.Errorf("failed to undo game %s: %w", match.ID, err)
	}

	e.metrics.IncGamesReversed()
	log.Info("Undid game", "match_id", match.ID, "delta_reversed", match.RatingChange)
	return nil
}

// AdjustRating overwrites a player's rating and counters directly. This is
// the admin escape hatch for correcting drift; it touches no match record.
func (e *Engine) AdjustRating(name string, newRating float64, gamesWon, gamesLost int, requesterPhone string) error {
	defer e.timeOp("adjust_rating")()

	if requesterPhone != e.cfg.AdminPhone {
		return ErrAdminPermissionRequired
	}

	players, err := e.store.GetAllPlayers()
	if err != nil {
		return err
	}
	player, err := e.resolver.Resolve(name, players)
	if err != nil {
		return err
	}

	r, err := e.store.GetRating(player.ID)
	if err != nil {
		return err
	}
	if r == nil {
		return &PlayerNotInRatingError{Names: []string{player.Name}}
	}

	r.Rating = e.clamp(newRating)
	r.GamesWon = gamesWon
	r.GamesLost = gamesLost
	r.WinningQuote = quote(gamesWon, gamesLost)
	r.LastChange = time.Now()

	if err := e.store.UpdateRating(*r); err != nil {
		return err
	}
	log.Info("Adjusted rating", "name", player.Name, "rating", r.Rating, "won", gamesWon, "lost", gamesLost)
	return nil
}

// ApplyRatingDecay multiplies every rating untouched for the configured
// window by the decay factor and refreshes its timestamp, which makes the
// pass idempotent until the window elapses again. Returns the number of
// ratings decayed.
func (e *Engine) ApplyRatingDecay() (int, error) {
	defer e.timeOp("apply_decay")()
	e.metrics.IncDecayRuns()

	now := time.Now()
	stale, err := e.store.GetStaleRatings(now.Add(-e.cfg.DecayAfter))
	if err != nil {
		return 0, err
	}

	for _, r := range stale {
		r.Rating = e.clamp(r.Rating * e.cfg.DecayFactor)
		r.LastChange = now
		if err := e.store.UpdateRating(r); err != nil {
			return 0, fmt.Errorf("failed to decay rating for player %s: %w", r.PlayerID, err)
		}
	}

	if len(stale) > 0 {
		e.metrics.AddRatingsDecayed(len(stale))
		log.Info("Applied rating decay", "count", len(stale), "factor", e.cfg.DecayFactor)
	}
	return len(stale), nil
}

// ListRatings returns the leaderboard, ordered by rating descending with
// rank positions assigned.
func (e *Engine) ListRatings() ([]LeaderboardEntry, error) {
	return e.store.ListRatings()
}

// ExportSnapshot reads the full rating and match state for archival.
// Packaging and upload are the caller's concern.
func (e *Engine) ExportSnapshot() (Snapshot, error) {
	ratings, err := e.store.GetAllRatings()
	if err != nil {
		return Snapshot{}, err
	}
	matches, err := e.store.GetAllMatches()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Ratings: ratings, Matches: matches, CreatedAt: time.Now()}, nil
}

// resolvePair resolves both names, collecting all unresolved ones into a
// single failure so the user sees every offending name at once.
func (e *Engine) resolvePair(nameA, nameB string) (Player, Player, error) {
	players, err := e.store.GetAllPlayers()
	if err != nil {
		return Player{}, Player{}, err
	}

	var missing []string
	playerA, errA := e.resolver.Resolve(nameA, players)
	if errA != nil {
		missing = append(missing, nameA)
	}
	playerB, errB := e.resolver.Resolve(nameB, players)
	if errB != nil {
		missing = append(missing, nameB)
	}
	if len(missing) > 0 {
		return Player{}, Player{}, &PlayerNotFoundError{Names: missing}
	}
	return playerA, playerB, nil
}

// ratingPair loads both ratings, enumerating the players that are not
// enrolled.
func (e *Engine) ratingPair(playerA, playerB Player) (*Rating, *Rating, error) {
	ratingA, err := e.store.GetRating(playerA.ID)
	if err != nil {
		return nil, nil, err
	}
	ratingB, err := e.store.GetRating(playerB.ID)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	if ratingA == nil {
		missing = append(missing, playerA.Name)
	}
	if ratingB == nil {
		missing = append(missing, playerB.Name)
	}
	if len(missing) > 0 {
		return nil, nil, &PlayerNotInRatingError{Names: missing}
	}
	return ratingA, ratingB, nil
}

// applyGame mutates one side's rating in place: the signed delta, the raw
// score counters (negative scores reverse a previous game), the derived
// quote and the timestamp.
func applyGame(r *Rating, won, lost int, delta float64, now time.Time) {
	r.Rating += delta
	r.GamesWon += won
	r.GamesLost += lost
	r.WinningQuote = quote(r.GamesWon, r.GamesLost)
	r.LastChange = now
}

// clampDelta shrinks a delta so neither side leaves the configured rating
// bounds. Shrinking the delta rather than clamping the results keeps the
// stored delta identical to what both ratings actually received, which the
// undo path depends on.
func (e *Engine) clampDelta(delta, ratingA, ratingB float64) float64 {
	if delta > 0 {
		delta = minFloat(delta, e.cfg.MaxRating-ratingA)
		delta = minFloat(delta, ratingB-e.cfg.MinRating)
		return maxFloat(delta, 0)
	}
	if delta < 0 {
		delta = maxFloat(delta, e.cfg.MinRating-ratingA)
		delta = maxFloat(delta, ratingB-e.cfg.MaxRating)
		return minFloat(delta, 0)
	}
	return delta
}

func (e *Engine) clamp(v float64) float64 {
	return maxFloat(e.cfg.MinRating, minFloat(e.cfg.MaxRating, v))
}

// quote derives the winning quote, nil while no games are on record.
func quote(won, lost int) *float64 {
	total := won + lost
	if total == 0 {
		return nil
	}
	q := float64(won) / float64(total)
	return &q
}

func missingRatingNames(playerA, playerB *Player, match *Match, ratingA, ratingB *Rating) []string {
	var names []string
	if ratingA == nil {
		names = append(names, playerLabel(playerA, match.PlayerA))
	}
	if ratingB == nil {
		names = append(names, playerLabel(playerB, match.PlayerB))
	}
	return names
}

// playerLabel falls back to the raw ID for matches referencing a deleted
// player.
func playerLabel(p *Player, id string) string {
	if p != nil {
		return p.Name
	}
	return id
}

// timeOp feeds the engine operation duration histogram.
func (e *Engine) timeOp(op string) func() {
	start := time.Now()
	return func() {
		e.metrics.ObserveEngineOpDuration(op, time.Since(start).Seconds())
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
