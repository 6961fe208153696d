// Package session keeps the per-user state of multi-step chat flows, such
// as reporting a game one answer at a time. Sessions live in Redis with a
// TTL, so an abandoned flow simply evaporates.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bvqclub/ratingbot/internal/rating"
)

// ErrSessionNotFound is returned when no session exists for the given phone.
var ErrSessionNotFound = errors.New("session not found")

// Step identifies where in the report flow a session is.
type Step string

const (
	StepOpponent   Step = "opponent"
	StepDiscipline Step = "discipline"
	StepScores     Step = "scores"
	StepConfirm    Step = "confirm"
)

// Session is the accumulated state of one report flow, keyed by the
// reporter's phone number.
type Session struct {
	Phone        string            `json:"phone"`
	Step         Step              `json:"step"`
	OpponentName string            `json:"opponent_name"`
	Discipline   rating.Discipline `json:"discipline"`
	Scores       [][2]int          `json:"scores"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Store is a Redis-backed session store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Store connected to the given Redis URL.
func New(url string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client, ttl: ttl}, nil
}

// NewWithClient creates a Store with an existing client (for testing).
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get loads the session for a phone number.
func (s *Store) Get(ctx context.Context, phone string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(phone)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Put saves the session and resets its TTL, so the flow stays alive as long
// as the user keeps answering.
func (s *Store) Put(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.Phone), data, s.ttl).Err()
}

// Clear removes the session, ending the flow.
func (s *Store) Clear(ctx context.Context, phone string) error {
	return s.client.Del(ctx, sessionKey(phone)).Err()
}

func sessionKey(phone string) string {
	return "session:" + phone
}
