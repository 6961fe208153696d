package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bvqclub/ratingbot/internal/pubsub"
	"github.com/bvqclub/ratingbot/internal/rating"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) RegisterPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.FormValue("name")
		phone := r.FormValue("phone")
		if name == "" || phone == "" {
			http.Error(w, "name and phone are required", http.StatusBadRequest)
			return
		}

		player, err := s.Engine.AddPlayer(name, phone)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(player); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) RemovePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := r.FormValue("phone")
		if phone == "" {
			http.Error(w, "phone is required", http.StatusBadRequest)
			return
		}

		// With a name, this is an admin removing someone else. Without,
		// the caller removes themselves by their own phone.
		var name string
		var err error
		if target := r.FormValue("name"); target != "" {
			name, err = s.Engine.DeletePlayerByName(target, phone)
		} else {
			name, err = s.Engine.DeletePlayer(phone)
		}
		if err != nil {
			respondEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Deleted player %s", name)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Engine.ListRatings()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

func (s *Server) EnrollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := r.FormValue("phone")
		if phone == "" {
			http.Error(w, "phone is required", http.StatusBadRequest)
			return
		}

		if err := s.Engine.AddPlayerToRating(phone); err != nil {
			respondEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Enrolled!")
	}
}

func (s *Server) WithdrawHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := r.FormValue("phone")
		if phone == "" {
			http.Error(w, "phone is required", http.StatusBadRequest)
			return
		}

		if err := s.Engine.RemovePlayerFromRating(phone); err != nil {
			respondEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Withdrawn from rating!")
	}
}

func (s *Server) AdjustRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.FormValue("name")
		newRating, err := strconv.ParseFloat(r.FormValue("rating"), 64)
		if err != nil {
			http.Error(w, "rating must be a number", http.StatusBadRequest)
			return
		}
		won, err := strconv.Atoi(r.FormValue("won"))
		if err != nil {
			http.Error(w, "won must be an integer", http.StatusBadRequest)
			return
		}
		lost, err := strconv.Atoi(r.FormValue("lost"))
		if err != nil {
			http.Error(w, "lost must be an integer", http.StatusBadRequest)
			return
		}

		if err := s.Engine.AdjustRating(name, newRating, won, lost, r.FormValue("phone")); err != nil {
			respondEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Adjusted rating for %s", name)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

func (s *Server) ReportGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		nameA := r.FormValue("player_a")
		nameB := r.FormValue("player_b")
		scoreA, err := strconv.Atoi(r.FormValue("score_a"))
		if err != nil {
			http.Error(w, "score_a must be an integer", http.StatusBadRequest)
			return
		}
		scoreB, err := strconv.Atoi(r.FormValue("score_b"))
		if err != nil {
			http.Error(w, "score_b must be an integer", http.StatusBadRequest)
			return
		}
		discipline, err := rating.ParseDiscipline(disciplineOrDefault(r.FormValue("discipline")))
		if err != nil {
			respondEngineError(w, err)
			return
		}

		result, err := s.Engine.AddGame(nameA, nameB, scoreA, scoreB, discipline, r.FormValue("phone"))
		if err != nil {
			respondEngineError(w, err)
			return
		}

		if err := pubsub.PublishGameRecorded(s.pubsub, pubsub.GameEvent{
			MatchID:      result.MatchID,
			PlayerA:      nameA,
			PlayerB:      nameB,
			ScoreA:       scoreA,
			ScoreB:       scoreB,
			RatingChange: result.RatingChange,
		}); err != nil {
			log.Error("Failed to publish game recorded event", "error", err)
		}
		if err := s.Notifier.SendGameRecorded(result, nameA, nameB, scoreA, scoreB, isDryRun); err != nil {
			log.Error("Failed to send game recorded notification", "error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) UndoGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		matchID := r.FormValue("match_id")
		if matchID == "" {
			http.Error(w, "match_id is required", http.StatusBadRequest)
			return
		}

		if err := s.Engine.DeleteGame(matchID, r.FormValue("phone")); err != nil {
			respondEngineError(w, err)
			return
		}

		if err := pubsub.PublishGameReversed(s.pubsub, pubsub.GameEvent{MatchID: matchID}); err != nil {
			log.Error("Failed to publish game reversed event", "error", err)
		}
		if err := s.Notifier.SendGameReversed(matchID, isDryRun); err != nil {
			log.Error("Failed to send game reversed notification", "error", err)
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Game %s undone", matchID)
	}
}

func (s *Server) DecayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		log.Info("Starting rating decay pass...")

		count, err := s.Engine.ApplyRatingDecay()
		if err != nil {
			http.Error(w, "Failed to apply rating decay", http.StatusInternalServerError)
			log.Error("Failed to apply rating decay", "error", err)
			return
		}

		if err := pubsub.PublishDecayCompleted(s.pubsub, pubsub.DecayEvent{Count: count, RunAt: time.Now()}); err != nil {
			log.Error("Failed to publish decay event", "error", err)
		}
		if count > 0 {
			if err := s.Notifier.SendDecayNotice(count, isDryRun); err != nil {
				log.Error("Failed to send decay notice", "error", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"decayed": count}); err != nil {
			log.Error("Failed to write response", "error", err)
		}
		log.Info("Rating decay pass finished.", "decayed", count)
	}
}

// AnnounceLeaderboardHandler posts the current leaderboard to the channel.
// Like /decay, it is a scheduled trigger hit by an external cron.
func (s *Server) AnnounceLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		entries, err := s.Engine.ListRatings()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}

		if err := s.Notifier.SendLeaderboard(entries, isDryRun); err != nil {
			http.Error(w, "Failed to announce leaderboard", http.StatusInternalServerError)
			log.Error("Failed to announce leaderboard", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"announced": len(entries)}); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

// GameEventPushHandler ingests pub/sub push deliveries of game events from
// peer instances, decoding the msgpack payload out of the push envelope.
func (s *Server) GameEventPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Message struct {
				Data []byte `json:"data"`
			} `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			http.Error(w, "Invalid push envelope", http.StatusBadRequest)
			return
		}

		var event pubsub.GameEvent
		if err := s.pubsub.ProcessMessage(envelope.Message.Data, &event); err != nil {
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			log.Error("Failed to decode game event", "error", err)
			return
		}

		log.Info("Received game event",
			"match_id", event.MatchID,
			"player_a", event.PlayerA, "player_b", event.PlayerB,
			"delta", event.RatingChange,
		)
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := s.Engine.ExportSnapshot()
		if err != nil {
			http.Error(w, "Failed to export snapshot", http.StatusInternalServerError)
			log.Error("Failed to export snapshot", "error", err)
			return
		}

		if err := pubsub.PublishSnapshot(s.pubsub, pubsub.SnapshotEvent{Snapshot: snapshot}); err != nil {
			log.Error("Failed to publish snapshot event", "error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			log.Error("Failed to encode snapshot to JSON", "error", err)
		}
	}
}

// disciplineOrDefault keeps the plain race the default so most callers never
// have to name it.
func disciplineOrDefault(s string) string {
	if s == "" {
		return string(rating.DisciplineNormal)
	}
	return s
}

// respondEngineError maps typed engine failures to HTTP status codes. The
// error text is safe to show callers, it carries no internals.
func respondEngineError(w http.ResponseWriter, err error) {
	var (
		notFound     *rating.PlayerNotFoundError
		gameNotFound *rating.GameNotFoundError
		exists       *rating.PlayerAlreadyExistsError
		inRating     *rating.PlayerAlreadyInRatingError
		notInRating  *rating.PlayerNotInRatingError
		tooOld       *rating.GameTooOldError
		badType      *rating.GameTypeNotSupportedError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &gameNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &exists), errors.As(err, &inRating):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &notInRating), errors.As(err, &badType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, rating.ErrPlayerNotInGame), errors.Is(err, rating.ErrAdminPermissionRequired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &tooOld):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		log.Error("Engine operation failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
