package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/bvqclub/ratingbot/internal/rating"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventGameRecorded   EventType = "game-recorded"
	EventGameReversed   EventType = "game-reversed"
	EventDecayCompleted EventType = "decay-completed"
	EventExportSnapshot EventType = "export-snapshot"
)

// GameEvent is the payload published when a game is recorded or reversed.
type GameEvent struct {
	MatchID      string  `msgpack:"match_id"`
	PlayerA      string  `msgpack:"player_a"`
	PlayerB      string  `msgpack:"player_b"`
	ScoreA       int     `msgpack:"score_a"`
	ScoreB       int     `msgpack:"score_b"`
	RatingChange float64 `msgpack:"rating_change"`
}

// DecayEvent is the payload published after a decay pass.
type DecayEvent struct {
	Count int       `msgpack:"count"`
	RunAt time.Time `msgpack:"run_at"`
}

// SnapshotEvent carries a full state export for downstream archival.
type SnapshotEvent struct {
	Snapshot rating.Snapshot `msgpack:"snapshot"`
}
