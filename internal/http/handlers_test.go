package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvqclub/ratingbot/internal/config"
	"github.com/bvqclub/ratingbot/internal/database"
	"github.com/bvqclub/ratingbot/internal/metrics"
	"github.com/bvqclub/ratingbot/internal/notifier"
	"github.com/bvqclub/ratingbot/internal/pubsub"
	"github.com/bvqclub/ratingbot/internal/rating"
	"github.com/bvqclub/ratingbot/internal/render"
	"github.com/bvqclub/ratingbot/internal/session"
)

const (
	testAdminPhone = "+49999"
	annaPhone      = "+49111"
	benPhone       = "+49222"
)

// setupTestServer initializes a server with a test database, a miniredis
// session store and mock clients.
func setupTestServer(t *testing.T, mockNotifier notifier.Notifier) (*Server, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := rating.NewStore(db)
	cfg := config.Config{
		AdminPhone: testAdminPhone,
		Rating: config.RatingConfig{
			BasePoints:       1000,
			RatingFactor:     400,
			KFactor:          3,
			MinRating:        100,
			MaxRating:        3000,
			ResolveThreshold: 0.75,
			MaxGameAge:       time.Hour,
			DecayAfter:       720 * time.Hour,
			DecayFactor:      0.97,
		},
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	engine := rating.NewEngine(
		store,
		rating.NewCalculator(cfg.Rating.RatingFactor, cfg.Rating.KFactor),
		rating.NewResolver(cfg.Rating.ResolveThreshold),
		metricsSvc,
		rating.Config{
			BasePoints:  cfg.Rating.BasePoints,
			MinRating:   cfg.Rating.MinRating,
			MaxRating:   cfg.Rating.MaxRating,
			MaxGameAge:  cfg.Rating.MaxGameAge,
			DecayAfter:  cfg.Rating.DecayAfter,
			DecayFactor: cfg.Rating.DecayFactor,
			AdminPhone:  cfg.AdminPhone,
		},
	)

	mini := miniredis.RunT(t)
	sessions := session.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mini.Addr()}), time.Hour)

	mockPubsub := pubsub.NewMock("TEST")
	server := NewServer(engine, store, metricsSvc, metricsHandler, cfg, mockNotifier, render.NewRenderer(), sessions, mockPubsub)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, mockPubsub, teardown
}

// postForm sends a urlencoded POST through the server's router.
func postForm(t *testing.T, server *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("POST", target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

// registerAndEnroll registers a player and opts them into the rating.
func registerAndEnroll(t *testing.T, server *Server, name, phone string) {
	t.Helper()
	_, err := server.Engine.AddPlayer(name, phone)
	require.NoError(t, err)
	require.NoError(t, server.Engine.AddPlayerToRating(phone))
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestRegisterAndListPlayers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	form := url.Values{}
	form.Set("name", "Anna Schmidt")
	form.Set("phone", annaPhone)
	rr := postForm(t, server, "/players/register", form)
	assert.Equal(t, http.StatusOK, rr.Code)

	var player rating.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	assert.Equal(t, "Anna Schmidt", player.Name)
	assert.NotEmpty(t, player.ID)

	// Registering the same phone again is a conflict.
	rr = postForm(t, server, "/players/register", form)
	assert.Equal(t, http.StatusConflict, rr.Code)

	req, err := http.NewRequest("GET", "/players", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Anna Schmidt")
}

func TestRegisterPlayerHandlerMissingFields(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	form := url.Values{}
	form.Set("name", "Anna")
	rr := postForm(t, server, "/players/register", form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemovePlayerHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)
	registerAndEnroll(t, server, "Ben", benPhone)

	t.Run("self removal by phone", func(t *testing.T) {
		form := url.Values{}
		form.Set("phone", annaPhone)
		rr := postForm(t, server, "/players/remove", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Deleted player Anna")
	})

	t.Run("admin removal by name", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "ben")
		form.Set("phone", testAdminPhone)
		rr := postForm(t, server, "/players/remove", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Deleted player Ben")
	})

	t.Run("non-admin cannot remove by name", func(t *testing.T) {
		registerAndEnroll(t, server, "Cara", "+49333")
		form := url.Values{}
		form.Set("name", "Cara")
		form.Set("phone", "+49333")
		rr := postForm(t, server, "/players/remove", form)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEnrollAndWithdrawHandlers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	_, err := server.Engine.AddPlayer("Anna", annaPhone)
	require.NoError(t, err)

	form := url.Values{}
	form.Set("phone", annaPhone)
	rr := postForm(t, server, "/ratings/enroll", form)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Enrolling twice is a conflict.
	rr = postForm(t, server, "/ratings/enroll", form)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = postForm(t, server, "/ratings/withdraw", form)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Unknown phone is not found.
	form.Set("phone", "+49000")
	rr = postForm(t, server, "/ratings/enroll", form)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportAndUndoGameHandlers(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, mockPubsub, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)
	registerAndEnroll(t, server, "Ben", benPhone)

	form := url.Values{}
	form.Set("player_a", "Anna")
	form.Set("player_b", "Ben")
	form.Set("score_a", "10")
	form.Set("score_b", "5")
	form.Set("phone", annaPhone)
	rr := postForm(t, server, "/matches/report", form)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result rating.GameResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Regexp(t, `^#\d{6}$`, result.MatchID)
	assert.InDelta(t, 7.5, result.RatingChange, 1e-9)

	require.Len(t, mockPubsub.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventGameRecorded), mockPubsub.SendMessageCalls[0].Topic)
	require.Len(t, mockNotifier.SendGameRecordedCalls, 1)
	assert.Equal(t, "Anna", mockNotifier.SendGameRecordedCalls[0].NameA)

	undoForm := url.Values{}
	undoForm.Set("match_id", result.MatchID)
	undoForm.Set("phone", benPhone)
	rr = postForm(t, server, "/matches/undo", undoForm)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, mockPubsub.SendMessageCalls, 2)
	assert.Equal(t, string(pubsub.EventGameReversed), mockPubsub.SendMessageCalls[1].Topic)
	assert.Equal(t, []string{result.MatchID}, mockNotifier.SendGameReversedCalls)

	entries, err := server.Engine.ListRatings()
	require.NoError(t, err)
	for _, entry := range entries {
		assert.InDelta(t, 1000.0, entry.Rating, 1e-9)
	}
}

func TestReportGameHandlerValidation(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)
	registerAndEnroll(t, server, "Ben", benPhone)

	t.Run("rejects non-numeric score", func(t *testing.T) {
		form := url.Values{}
		form.Set("player_a", "Anna")
		form.Set("player_b", "Ben")
		form.Set("score_a", "ten")
		form.Set("score_b", "5")
		form.Set("phone", annaPhone)
		rr := postForm(t, server, "/matches/report", form)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects unknown discipline", func(t *testing.T) {
		form := url.Values{}
		form.Set("player_a", "Anna")
		form.Set("player_b", "Ben")
		form.Set("score_a", "10")
		form.Set("score_b", "5")
		form.Set("discipline", "9-Ball")
		form.Set("phone", annaPhone)
		rr := postForm(t, server, "/matches/report", form)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects reporter outside the game", func(t *testing.T) {
		registerAndEnroll(t, server, "Cara", "+49333")
		form := url.Values{}
		form.Set("player_a", "Anna")
		form.Set("player_b", "Ben")
		form.Set("score_a", "10")
		form.Set("score_b", "5")
		form.Set("phone", "+49333")
		rr := postForm(t, server, "/matches/report", form)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestUndoGameHandlerNotFound(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	form := url.Values{}
	form.Set("match_id", "#999999")
	form.Set("phone", annaPhone)
	rr := postForm(t, server, "/matches/undo", form)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdjustRatingHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	form := url.Values{}
	form.Set("name", "Anna")
	form.Set("rating", "1234.5")
	form.Set("won", "8")
	form.Set("lost", "2")

	t.Run("rejects non-admin", func(t *testing.T) {
		form.Set("phone", annaPhone)
		rr := postForm(t, server, "/ratings/adjust", form)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin adjusts", func(t *testing.T) {
		form.Set("phone", testAdminPhone)
		rr := postForm(t, server, "/ratings/adjust", form)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		entries, err := server.Engine.ListRatings()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.InDelta(t, 1234.5, entries[0].Rating, 1e-9)
		assert.Equal(t, 8, entries[0].GamesWon)
	})
}

func TestDecayHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, mockPubsub, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	req, err := http.NewRequest("POST", "/decay", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"decayed": 0}`, rr.Body.String())

	// A fresh rating never decays, so no notice goes out.
	assert.Empty(t, mockNotifier.SendDecayNoticeCalls)
	require.Len(t, mockPubsub.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventDecayCompleted), mockPubsub.SendMessageCalls[0].Topic)
}

func TestExportHandler(t *testing.T) {
	server, mockPubsub, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	req, err := http.NewRequest("GET", "/export", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot rating.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot.Ratings, 1)
	assert.Empty(t, snapshot.Matches)

	require.Len(t, mockPubsub.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventExportSnapshot), mockPubsub.SendMessageCalls[0].Topic)
}

func TestAnnounceLeaderboardHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	req, err := http.NewRequest("POST", "/leaderboard/announce", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"announced": 1}`, rr.Body.String())

	require.Len(t, mockNotifier.SendLeaderboardCalls, 1)
	require.Len(t, mockNotifier.SendLeaderboardCalls[0], 1)
	assert.Equal(t, "Anna", mockNotifier.SendLeaderboardCalls[0][0].Name)
}

func TestGameEventPushHandler(t *testing.T) {
	server, mockPubsub, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	payload, err := msgpack.Marshal(pubsub.GameEvent{MatchID: "#042137", PlayerA: "Anna", PlayerB: "Ben", RatingChange: 7.5})
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{"message": map[string]any{"data": payload}})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/pubsub/game-events", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, mockPubsub.ProcessMessageCalls, 1)

	t.Run("rejects a broken envelope", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/pubsub/game-events", strings.NewReader("not json"))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLeaderboardCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatLeaderboardResponseFunc = func(entries []rating.LeaderboardEntry) (any, error) {
		return slack.Message{}, nil
	}
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	form := url.Values{}
	rr := postForm(t, server, "/slack/command/leaderboard", form)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestLeaderboardCommandHandlerImage(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	form := url.Values{}
	form.Set("text", "image")
	rr := postForm(t, server, "/slack/command/leaderboard", form)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Leaderboard image posted")

	require.Len(t, mockNotifier.SendLeaderboardImageCalls, 1)
	assert.NotEmpty(t, mockNotifier.SendLeaderboardImageCalls[0])
}

func TestEnrollCommandHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	_, err := server.Engine.AddPlayer("Anna", annaPhone)
	require.NoError(t, err)

	form := url.Values{}
	form.Set("phone", annaPhone)
	rr := postForm(t, server, "/slack/command/enroll", form)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1000 points")
}

func TestUndoCommandHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)
	registerAndEnroll(t, server, "Ben", benPhone)
	result, err := server.Engine.AddGame("Anna", "Ben", 10, 5, rating.DisciplineNormal, annaPhone)
	require.NoError(t, err)

	t.Run("asks for a match id", func(t *testing.T) {
		form := url.Values{}
		form.Set("phone", annaPhone)
		rr := postForm(t, server, "/slack/command/undo", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "which game to undo")
	})

	t.Run("undoes by id", func(t *testing.T) {
		form := url.Values{}
		form.Set("phone", annaPhone)
		form.Set("text", result.MatchID)
		rr := postForm(t, server, "/slack/command/undo", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ratings restored")
	})
}

func TestAdjustCommandHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna Schmidt", annaPhone)

	t.Run("rejects malformed text", func(t *testing.T) {
		form := url.Values{}
		form.Set("phone", testAdminPhone)
		form.Set("text", "Anna 1200")
		rr := postForm(t, server, "/slack/command/adjust", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Usage:")
	})

	t.Run("non-admin gets the error message", func(t *testing.T) {
		form := url.Values{}
		form.Set("phone", annaPhone)
		form.Set("text", "Anna Schmidt 1200 5 5")
		rr := postForm(t, server, "/slack/command/adjust", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "formatted_error")
	})

	t.Run("admin adjusts with a spaced name", func(t *testing.T) {
		form := url.Values{}
		form.Set("phone", testAdminPhone)
		form.Set("text", "Anna Schmidt 1200 5 5")
		rr := postForm(t, server, "/slack/command/adjust", form)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Adjusted Anna Schmidt to 1200.0 points")

		entries, err := server.Engine.ListRatings()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.InDelta(t, 1200.0, entries[0].Rating, 1e-9)
	})
}

// reportStep sends one /report invocation for the given phone and text.
func reportStep(t *testing.T, server *Server, phone, text string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("phone", phone)
	form.Set("text", text)
	return postForm(t, server, "/slack/command/report", form)
}

func TestReportCommandFlow(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)
	registerAndEnroll(t, server, "Ben", benPhone)

	rr := reportStep(t, server, annaPhone, "")
	assert.Contains(t, rr.Body.String(), "Who did you play against?")

	rr = reportStep(t, server, annaPhone, "Ben")
	assert.Contains(t, rr.Body.String(), "Which game type?")

	rr = reportStep(t, server, annaPhone, "Normal")
	assert.Contains(t, rr.Body.String(), "you:them pairs")

	rr = reportStep(t, server, annaPhone, "10:5 10:7")
	assert.Contains(t, rr.Body.String(), "Record 2 game(s) against Ben?")

	rr = reportStep(t, server, annaPhone, "yes")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Recorded 2 game(s)")

	// Both games landed and the session is gone.
	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Len(t, mockNotifier.SendGameRecordedCalls, 1)

	rr = reportStep(t, server, annaPhone, "")
	assert.Contains(t, rr.Body.String(), "Who did you play against?")
}

func TestReportCommandFlowSingleGameRespondsWithBlocks(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatGameRecordedResponseFunc = func(result rating.GameResult, nameA, nameB string, scoreA, scoreB int) (any, error) {
		text := "game locked in: " + nameA + " vs " + nameB
		return slack.NewBlockMessage(
			slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
		), nil
	}
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)
	registerAndEnroll(t, server, "Ben", benPhone)

	reportStep(t, server, annaPhone, "")
	reportStep(t, server, annaPhone, "Ben")
	reportStep(t, server, annaPhone, "Normal")
	reportStep(t, server, annaPhone, "10:5")

	rr := reportStep(t, server, annaPhone, "yes")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "game locked in: Anna vs Ben")
}

func TestReportCommandFlowCancel(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	rr := reportStep(t, server, annaPhone, "")
	assert.Contains(t, rr.Body.String(), "Who did you play against?")

	rr = reportStep(t, server, annaPhone, "cancel")
	assert.Contains(t, rr.Body.String(), "Report cancelled.")

	// A fresh invocation starts over.
	rr = reportStep(t, server, annaPhone, "")
	assert.Contains(t, rr.Body.String(), "Who did you play against?")
}

func TestReportCommandFlowRejectsBadInput(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	registerAndEnroll(t, server, "Anna", annaPhone)

	reportStep(t, server, annaPhone, "")
	reportStep(t, server, annaPhone, "Ben")

	rr := reportStep(t, server, annaPhone, "Snooker")
	assert.Contains(t, rr.Body.String(), "formatted_error")

	rr = reportStep(t, server, annaPhone, "Normal")
	assert.Contains(t, rr.Body.String(), "you:them pairs")

	rr = reportStep(t, server, annaPhone, "ten to five")
	assert.Contains(t, rr.Body.String(), "scores look like 10:5")
}

func TestParseScorePairs(t *testing.T) {
	scores, err := parseScorePairs("10:5 10:7")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{10, 5}, {10, 7}}, scores)

	_, err = parseScorePairs("")
	assert.Error(t, err)

	_, err = parseScorePairs("10-5")
	assert.Error(t, err)

	_, err = parseScorePairs("10:-5")
	assert.Error(t, err)
}
