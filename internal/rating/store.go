package rating

import (
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// store handles all database operations for players, ratings and matches.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new Store backed by the given database.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) CreatePlayer(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO players (id, name, phone_number) VALUES (?, ?, ?)",
		p.ID, p.Name, p.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player %s: %w", p.Name, err)
	}
	return nil
}

func (s *store) GetPlayerByPhone(phone string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, phone_number FROM players WHERE phone_number = ?", phone)
	return scanPlayer(row)
}

func (s *store) GetPlayerByID(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, phone_number FROM players WHERE id = ?", id)
	return scanPlayer(row)
}

func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, phone_number FROM players ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.PhoneNumber); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// DeletePlayer removes a player and their rating in one transaction.
// Historical matches are retained and keep their player references. The
// rating is deleted explicitly rather than left to the schema's cascade:
// the foreign_keys pragma is per-connection in SQLite, so a pooled
// connection that never ran it would silently orphan the rating row.
func (s *store) DeletePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM ratings WHERE player_id = ?", id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete rating for player %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM players WHERE id = ?", id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return tx.Commit()
}

func (s *store) CreateRating(r Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO ratings (player_id, rating, winning_quote, games_won, games_lost, last_change) VALUES (?, ?, ?, ?, ?, ?)",
		r.PlayerID, r.Rating, nullableQuote(r.WinningQuote), r.GamesWon, r.GamesLost, r.LastChange.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert rating for player %s: %w", r.PlayerID, err)
	}
	return nil
}

func (s *store) GetRating(playerID string) (*Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT player_id, rating, winning_quote, games_won, games_lost, last_change FROM ratings WHERE player_id = ?",
		playerID,
	)
	return scanRating(row)
}

func (s *store) UpdateRating(r Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE ratings SET rating = ?, winning_quote = ?, games_won = ?, games_lost = ?, last_change = ? WHERE player_id = ?",
		r.Rating, nullableQuote(r.WinningQuote), r.GamesWon, r.GamesLost, r.LastChange.Unix(), r.PlayerID,
	)
	return err
}

func (s *store) DeleteRating(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM ratings WHERE player_id = ?", playerID)
	return err
}

func (s *store) GetAllRatings() ([]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRatings("SELECT player_id, rating, winning_quote, games_won, games_lost, last_change FROM ratings")
}

func (s *store) GetStaleRatings(olderThan time.Time) ([]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRatings(
		"SELECT player_id, rating, winning_quote, games_won, games_lost, last_change FROM ratings WHERE last_change < ?",
		olderThan.Unix(),
	)
}

func (s *store) queryRatings(query string, args ...any) ([]Rating, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, *r)
	}
	return ratings, rows.Err()
}

func (s *store) GetMatch(id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT id, player_a, player_b, score_a, score_b, race_to, discipline, rating_change, created_at FROM matches WHERE id = ?",
		id,
	)
	return scanMatch(row)
}

func (s *store) GetAllMatches() ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, player_a, player_b, score_a, score_b, race_to, discipline, rating_change, created_at FROM matches ORDER BY created_at",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// CreateMatchWithRatings inserts the match and both updated ratings in one
// transaction, so a crash can never leave a match without its rating effect.
func (s *store) CreateMatchWithRatings(m Match, ratingA, ratingB Rating) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return Match{}, err
	}

	id, err := generateMatchID(tx)
	if err != nil {
		tx.Rollback()
		return Match{}, fmt.Errorf("failed to generate match id: %w", err)
	}
	m.ID = id

	_, err = tx.Exec(
		"INSERT INTO matches (id, player_a, player_b, score_a, score_b, race_to, discipline, rating_change, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.PlayerA, m.PlayerB, m.ScoreA, m.ScoreB, m.RaceTo, string(m.Discipline), m.RatingChange, m.CreatedAt.Unix(),
	)
	if err != nil {
		tx.Rollback()
		return Match{}, fmt.Errorf("failed to insert match %s: %w", m.ID, err)
	}

	for _, r := range []Rating{ratingA, ratingB} {
		if err := updateRatingTx(tx, r); err != nil {
			tx.Rollback()
			return Match{}, fmt.Errorf("failed to update rating for player %s: %w", r.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Match{}, err
	}
	return m, nil
}

// DeleteMatchWithRatings deletes the match and both reversed ratings in one
// transaction, the mirror image of CreateMatchWithRatings.
func (s *store) DeleteMatchWithRatings(matchID string, ratingA, ratingB Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, r := range []Rating{ratingA, ratingB} {
		if err := updateRatingTx(tx, r); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update rating for player %s: %w", r.PlayerID, err)
		}
	}

	res, err := tx.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		tx.Rollback()
		return fmt.Errorf("match %s vanished mid-delete", matchID)
	}

	return tx.Commit()
}

func (s *store) ListRatings() ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.id, p.name, r.rating, r.winning_quote, r.games_won, r.games_lost, r.last_change
		FROM ratings r
		JOIN players p ON p.id = r.player_id
		ORDER BY r.rating DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var quote sql.NullFloat64
		var lastChange int64
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Rating, &quote, &e.GamesWon, &e.GamesLost, &lastChange); err != nil {
			return nil, err
		}
		if quote.Valid {
			e.WinningQuote = &quote.Float64
		}
		e.LastChange = time.Unix(lastChange, 0)
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// generateMatchID draws random short IDs until one is free. The ID space is
// small on purpose (the original club never exceeded a few thousand games),
// so collisions are rare and the retry loop is cheap.
func generateMatchID(tx *sql.Tx) (string, error) {
	for {
		id := formatMatchID(rand.Intn(1000000))
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM matches WHERE id = ?)", id).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		log.Debug("Match ID collision, retrying", "id", id)
	}
}

func updateRatingTx(tx *sql.Tx, r Rating) error {
	res, err := tx.Exec(
		"UPDATE ratings SET rating = ?, winning_quote = ?, games_won = ?, games_lost = ?, last_change = ? WHERE player_id = ?",
		r.Rating, nullableQuote(r.WinningQuote), r.GamesWon, r.GamesLost, r.LastChange.Unix(), r.PlayerID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no rating row for player %s", r.PlayerID)
	}
	return nil
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.Name, &p.PhoneNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanRating(scanner interface{ Scan(...any) error }) (*Rating, error) {
	var r Rating
	var quote sql.NullFloat64
	var lastChange int64
	err := scanner.Scan(&r.PlayerID, &r.Rating, &quote, &r.GamesWon, &r.GamesLost, &lastChange)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if quote.Valid {
		r.WinningQuote = &quote.Float64
	}
	r.LastChange = time.Unix(lastChange, 0)
	return &r, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var discipline string
	var createdAt int64
	err := scanner.Scan(&m.ID, &m.PlayerA, &m.PlayerB, &m.ScoreA, &m.ScoreB, &m.RaceTo, &discipline, &m.RatingChange, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Discipline = Discipline(discipline)
	m.CreatedAt = time.Unix(createdAt, 0)
	return &m, nil
}

func nullableQuote(q *float64) any {
	if q == nil {
		return nil
	}
	return *q
}
