package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	slackapi "github.com/slack-go/slack"

	"github.com/bvqclub/ratingbot/internal/pubsub"
	"github.com/bvqclub/ratingbot/internal/rating"
	"github.com/bvqclub/ratingbot/internal/session"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slackapi.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondWithText writes a plain ephemeral slash command response.
func respondWithText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"response_type": "ephemeral", "text": text}); err != nil {
		log.Error("Failed to encode slash response", "error", err)
	}
}

// respondWithEngineError renders a domain failure as chat text.
func (s *Server) respondWithEngineError(w http.ResponseWriter, err error) {
	msg, fmtErr := s.Notifier.FormatErrorResponse(err)
	if fmtErr != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format error response", "error", fmtErr)
		return
	}
	if slackMsg, ok := msg.(slackapi.Message); ok {
		respondWithSlackMsg(w, slackMsg)
		return
	}
	respondWithText(w, fmt.Sprint(msg))
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// Sending "image" as the command text uploads a rendered PNG to the channel
// instead of replying with text blocks.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		entries, err := s.Engine.ListRatings()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}

		if strings.TrimSpace(r.FormValue("text")) == "image" {
			png, err := s.Renderer.LeaderboardPNG(entries)
			if err != nil {
				http.Error(w, "Failed to render leaderboard", http.StatusInternalServerError)
				log.Error("Failed to render leaderboard image", "error", err)
				return
			}
			if err := s.Notifier.SendLeaderboardImage(png, isDryRun); err != nil {
				http.Error(w, "Failed to upload leaderboard", http.StatusInternalServerError)
				return
			}
			respondWithText(w, "Leaderboard image posted to the channel.")
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(entries)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slackapi.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// EnrollCommandHandler returns a handler for the /enroll Slack command.
func (s *Server) EnrollCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := r.FormValue("phone")
		if err := s.Engine.AddPlayerToRating(phone); err != nil {
			s.respondWithEngineError(w, err)
			return
		}
		respondWithText(w, fmt.Sprintf("You're in! Everyone starts at %.0f points.", s.Cfg.Rating.BasePoints))
	}
}

// UndoCommandHandler returns a handler for the /undo Slack command. The
// command text is the match ID printed when the game was recorded.
func (s *Server) UndoCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		matchID := strings.TrimSpace(r.FormValue("text"))
		if matchID == "" {
			respondWithText(w, "Tell me which game to undo, e.g. /undo #042137")
			return
		}

		if err := s.Engine.DeleteGame(matchID, r.FormValue("phone")); err != nil {
			s.respondWithEngineError(w, err)
			return
		}

		if err := pubsub.PublishGameReversed(s.pubsub, pubsub.GameEvent{MatchID: matchID}); err != nil {
			log.Error("Failed to publish game reversed event", "error", err)
		}
		if err := s.Notifier.SendGameReversed(matchID, isDryRun); err != nil {
			log.Error("Failed to send game reversed notification", "error", err)
		}
		respondWithText(w, fmt.Sprintf("Game %s undone, ratings restored.", matchID))
	}
}

// AdjustCommandHandler returns a handler for the /adjust Slack command
// (admin only). The command text is "<name> <rating> <won> <lost>", where
// the name may contain spaces.
func (s *Server) AdjustCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := strings.Fields(r.FormValue("text"))
		if len(fields) < 4 {
			respondWithText(w, "Usage: /adjust <name> <rating> <won> <lost>")
			return
		}

		name := strings.Join(fields[:len(fields)-3], " ")
		newRating, errR := strconv.ParseFloat(fields[len(fields)-3], 64)
		won, errW := strconv.Atoi(fields[len(fields)-2])
		lost, errL := strconv.Atoi(fields[len(fields)-1])
		if errR != nil || errW != nil || errL != nil {
			respondWithText(w, "Usage: /adjust <name> <rating> <won> <lost>")
			return
		}

		if err := s.Engine.AdjustRating(name, newRating, won, lost, r.FormValue("phone")); err != nil {
			s.respondWithEngineError(w, err)
			return
		}
		respondWithText(w, fmt.Sprintf("Adjusted %s to %.1f points (%d-%d).", name, newRating, won, lost))
	}
}

// ReportCommandHandler returns a handler for the /report Slack command. The
// flow is conversational: each invocation answers the current question and
// the session in Redis carries the collected answers forward.
func (s *Server) ReportCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		phone := r.FormValue("phone")
		text := strings.TrimSpace(r.FormValue("text"))

		if strings.EqualFold(text, "cancel") {
			if err := s.Sessions.Clear(ctx, phone); err != nil {
				log.Error("Failed to clear session", "error", err)
			}
			respondWithText(w, "Report cancelled.")
			return
		}

		sess, err := s.Sessions.Get(ctx, phone)
		if errors.Is(err, session.ErrSessionNotFound) {
			sess = &session.Session{Phone: phone, Step: session.StepOpponent}
			if err := s.Sessions.Put(ctx, sess); err != nil {
				http.Error(w, "Failed to start report", http.StatusInternalServerError)
				log.Error("Failed to save session", "error", err)
				return
			}
			respondWithText(w, "Who did you play against? (or 'cancel' to stop)")
			return
		}
		if err != nil {
			http.Error(w, "Failed to load report state", http.StatusInternalServerError)
			log.Error("Failed to load session", "error", err)
			return
		}

		s.advanceReportFlow(w, r, sess, text)
	}
}

// advanceReportFlow feeds one answer into the session state machine.
func (s *Server) advanceReportFlow(w http.ResponseWriter, r *http.Request, sess *session.Session, text string) {
	ctx := r.Context()

	switch sess.Step {
	case session.StepOpponent:
		if text == "" {
			respondWithText(w, "Who did you play against? (or 'cancel' to stop)")
			return
		}
		sess.OpponentName = text
		sess.Step = session.StepDiscipline
		if err := s.Sessions.Put(ctx, sess); err != nil {
			http.Error(w, "Failed to save report state", http.StatusInternalServerError)
			return
		}
		respondWithText(w, "Which game type? (Normal or 14.1)")

	case session.StepDiscipline:
		discipline, err := rating.ParseDiscipline(text)
		if err != nil {
			s.respondWithEngineError(w, err)
			return
		}
		sess.Discipline = discipline
		sess.Step = session.StepScores
		if err := s.Sessions.Put(ctx, sess); err != nil {
			http.Error(w, "Failed to save report state", http.StatusInternalServerError)
			return
		}
		respondWithText(w, "Send the scores as you:them pairs, e.g. 10:5 10:7")

	case session.StepScores:
		scores, err := parseScorePairs(text)
		if err != nil {
			respondWithText(w, err.Error())
			return
		}
		sess.Scores = scores
		sess.Step = session.StepConfirm
		if err := s.Sessions.Put(ctx, sess); err != nil {
			http.Error(w, "Failed to save report state", http.StatusInternalServerError)
			return
		}
		respondWithText(w, fmt.Sprintf("Record %d game(s) against %s? (yes/no)", len(scores), sess.OpponentName))

	case session.StepConfirm:
		if !strings.EqualFold(text, "yes") {
			if err := s.Sessions.Clear(ctx, sess.Phone); err != nil {
				log.Error("Failed to clear session", "error", err)
			}
			respondWithText(w, "Report cancelled.")
			return
		}
		s.finishReportFlow(w, r, sess)

	default:
		if err := s.Sessions.Clear(ctx, sess.Phone); err != nil {
			log.Error("Failed to clear session", "error", err)
		}
		respondWithText(w, "Something went stale, please start over with /report.")
	}
}

// finishReportFlow records the collected games and ends the session.
func (s *Server) finishReportFlow(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()
	isDryRun := isDryRunFromContext(r)

	reporter, err := s.Store.GetPlayerByPhone(sess.Phone)
	if err != nil {
		http.Error(w, "Failed to load reporter", http.StatusInternalServerError)
		log.Error("Failed to load reporter", "error", err)
		return
	}
	if reporter == nil {
		s.respondWithEngineError(w, &rating.PlayerNotFoundError{Names: []string{sess.Phone}})
		return
	}

	results, err := s.Engine.AddGames(reporter.Name, sess.OpponentName, sess.Scores, sess.Discipline, sess.Phone)
	if err != nil {
		// Recorded games stay recorded; report how far the batch got.
		if len(results) > 0 {
			log.Warn("Batch report failed partway", "recorded", len(results), "error", err)
		}
		s.respondWithEngineError(w, err)
		return
	}

	if err := s.Sessions.Clear(ctx, sess.Phone); err != nil {
		log.Error("Failed to clear session", "error", err)
	}

	var total float64
	ids := make([]string, 0, len(results))
	for _, res := range results {
		total += res.RatingChange
		ids = append(ids, res.MatchID)
		if err := pubsub.PublishGameRecorded(s.pubsub, pubsub.GameEvent{
			MatchID:      res.MatchID,
			PlayerA:      reporter.Name,
			PlayerB:      sess.OpponentName,
			RatingChange: res.RatingChange,
		}); err != nil {
			log.Error("Failed to publish game recorded event", "error", err)
		}
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		lastScore := sess.Scores[len(sess.Scores)-1]
		if err := s.Notifier.SendGameRecorded(last, reporter.Name, sess.OpponentName, lastScore[0], lastScore[1], isDryRun); err != nil {
			log.Error("Failed to send game recorded notification", "error", err)
		}
	}

	// A single game gets the full result blocks; batches get a summary line.
	if len(results) == 1 {
		msg, err := s.Notifier.FormatGameRecordedResponse(results[0], reporter.Name, sess.OpponentName, sess.Scores[0][0], sess.Scores[0][1])
		if err == nil {
			if slackMsg, ok := msg.(slackapi.Message); ok {
				respondWithSlackMsg(w, slackMsg)
				return
			}
		}
	}
	respondWithText(w, fmt.Sprintf("Recorded %d game(s) (%s). Your rating moved %+.1f points.",
		len(results), strings.Join(ids, ", "), total))
}

// parseScorePairs parses "10:5 10:7" into score pairs.
func parseScorePairs(text string) ([][2]int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, errors.New("Send at least one score pair, e.g. 10:5")
	}

	scores := make([][2]int, 0, len(fields))
	for _, field := range fields {
		parts := strings.SplitN(field, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("I couldn't read %q, scores look like 10:5", field)
		}
		a, errA := strconv.Atoi(parts[0])
		b, errB := strconv.Atoi(parts[1])
		if errA != nil || errB != nil || a < 0 || b < 0 {
			return nil, fmt.Errorf("I couldn't read %q, scores look like 10:5", field)
		}
		scores = append(scores, [2]int{a, b})
	}
	return scores, nil
}
