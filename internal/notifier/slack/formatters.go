package slack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/bvqclub/ratingbot/internal/rating"
)

// formatGameRecorded creates the Slack message for a freshly recorded game using Block Kit.
func (s *Notifier) formatGameRecorded(result rating.GameResult, nameA, nameB string, scoreA, scoreB int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎱 Game recorded! 🎱", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	resultText := fmt.Sprintf("%s vs %s\nScore: %d:%d", nameA, nameB, scoreA, scoreB)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	var deltaText string
	switch {
	case result.RatingChange > 0:
		deltaText = fmt.Sprintf("%s gains %.1f points, %s loses %.1f.", nameA, result.RatingChange, nameB, result.RatingChange)
	case result.RatingChange < 0:
		deltaText = fmt.Sprintf("%s gains %.1f points, %s loses %.1f.", nameB, -result.RatingChange, nameA, -result.RatingChange)
	default:
		deltaText = "No rating change."
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", deltaText, true, false), nil, nil))

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match ID: %s (use it to undo)", result.MatchID), true, false),
	))

	return slack.NewBlockMessage(blocks...)
}

// formatGameReversed creates the Slack message for an undone game.
func (s *Notifier) formatGameReversed(matchID string) slack.Message {
	text := fmt.Sprintf("Game %s has been undone and both ratings restored.", matchID)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

// formatLeaderboard creates a Slack message to display the current ranking.
func (s *Notifier) formatLeaderboard(entries []rating.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Rating Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody is in the rating yet. Go play some games!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		quote := "-"
		if entry.WinningQuote != nil {
			quote = fmt.Sprintf("%.1f%%", *entry.WinningQuote*100)
		}

		entryText := fmt.Sprintf("%d. %s %s\n> Rating: %.1f | Win %%: %s | Won: %d | Lost: %d",
			entry.Rank,
			medal,
			entry.Name,
			entry.Rating,
			quote,
			entry.GamesWon,
			entry.GamesLost,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", entryText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatDecayNotice creates a Slack message announcing a completed decay pass.
func (s *Notifier) formatDecayNotice(count int) slack.Message {
	var text string
	if count == 0 {
		text = "Rating decay ran: everyone has been active, no ratings changed."
	} else {
		text = fmt.Sprintf("Rating decay ran: %d inactive player(s) lost points. Play a game to stop the slide!", count)
	}
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

// UserMessage translates a typed engine failure into text fit for chat. An
// unrecognized error gets a generic line so internals never leak to users.
func UserMessage(err error) string {
	var (
		notFound     *rating.PlayerNotFoundError
		exists       *rating.PlayerAlreadyExistsError
		notInRating  *rating.PlayerNotInRatingError
		inRating     *rating.PlayerAlreadyInRatingError
		gameNotFound *rating.GameNotFoundError
		tooOld       *rating.GameTooOldError
		badType      *rating.GameTypeNotSupportedError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("I don't know any player called *%s*. Check the spelling or register first.", strings.Join(notFound.Names, "* or *"))
	case errors.As(err, &exists):
		return fmt.Sprintf("*%s* is already registered with that phone number.", exists.Name)
	case errors.As(err, &notInRating):
		return fmt.Sprintf("*%s* is not in the rating yet. Join with /enroll first.", strings.Join(notInRating.Names, "* and *"))
	case errors.As(err, &inRating):
		return fmt.Sprintf("*%s* is already in the rating.", inRating.Name)
	case errors.As(err, &gameNotFound):
		return fmt.Sprintf("I couldn't find a game with ID *%s*.", gameNotFound.MatchID)
	case errors.As(err, &tooOld):
		return fmt.Sprintf("Game *%s* is too old to undo. Ask an admin if it really needs fixing.", tooOld.MatchID)
	case errors.As(err, &badType):
		return fmt.Sprintf("I don't know the game type *%s*. Try *Normal* or *14.1*.", badType.Discipline)
	case errors.Is(err, rating.ErrPlayerNotInGame):
		return "Only the players involved (or an admin) can report or undo a game."
	case errors.Is(err, rating.ErrAdminPermissionRequired):
		return "Sorry, only an admin can do that."
	}
	return "Something went wrong on my end. Please try again."
}
