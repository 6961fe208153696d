package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/bvqclub/ratingbot/internal/metrics"
	"github.com/bvqclub/ratingbot/internal/notifier"
	"github.com/bvqclub/ratingbot/internal/rating"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendGameRecorded(result rating.GameResult, nameA, nameB string, scoreA, scoreB int, dryRun bool) error {
	msg := s.formatGameRecorded(result, nameA, nameB, scoreA, scoreB)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendGameReversed(matchID string, dryRun bool) error {
	msg := s.formatGameReversed(matchID)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []rating.LeaderboardEntry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboardImage uploads a rendered leaderboard PNG to the channel.
func (s *Notifier) SendLeaderboardImage(png []byte, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would upload leaderboard image", "channel", s.channelID, "bytes", len(png))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:   bytes.NewReader(png),
		FileSize: len(png),
		Filename: "leaderboard.png",
		Title:    "Leaderboard",
		Channel:  s.channelID,
	})
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to upload leaderboard image", "error", err, "channel", s.channelID)
		return fmt.Errorf("failed to upload leaderboard image: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully uploaded leaderboard image", "channel", s.channelID)
	return nil
}

func (s *Notifier) SendDecayNotice(count int, dryRun bool) error {
	msg := s.formatDecayNotice(count)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []rating.LeaderboardEntry) (any, error) {
	return s.formatLeaderboard(entries), nil
}

// FormatGameRecordedResponse formats a recorded game message for a slash command response.
func (s *Notifier) FormatGameRecordedResponse(result rating.GameResult, nameA, nameB string, scoreA, scoreB int) (any, error) {
	return s.formatGameRecorded(result, nameA, nameB, scoreA, scoreB), nil
}

// FormatErrorResponse formats a domain failure as a user-facing message for
// a slash command response.
func (s *Notifier) FormatErrorResponse(err error) (any, error) {
	text := UserMessage(err)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}
