package notifier

import (
	"sync"

	"github.com/bvqclub/ratingbot/internal/rating"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendGameRecordedCalls []struct {
		Result rating.GameResult
		NameA  string
		NameB  string
		ScoreA int
		ScoreB int
	}
	SendGameReversedCalls     []string
	SendLeaderboardCalls      [][]rating.LeaderboardEntry
	SendLeaderboardImageCalls [][]byte
	SendDecayNoticeCalls      []int

	// Spies for format functions
	FormatLeaderboardResponseFunc  func(entries []rating.LeaderboardEntry) (any, error)
	FormatGameRecordedResponseFunc func(result rating.GameResult, nameA, nameB string, scoreA, scoreB int) (any, error)
	FormatErrorResponseFunc        func(err error) (any, error)

	// Call records for format functions
	FormatErrorCalls []error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameRecordedCalls = nil
	m.SendGameReversedCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendLeaderboardImageCalls = nil
	m.SendDecayNoticeCalls = nil
	m.FormatErrorCalls = nil
}

func (m *Mock) SendGameRecorded(result rating.GameResult, nameA, nameB string, scoreA, scoreB int, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameRecordedCalls = append(m.SendGameRecordedCalls, struct {
		Result rating.GameResult
		NameA  string
		NameB  string
		ScoreA int
		ScoreB int
	}{result, nameA, nameB, scoreA, scoreB})
	return nil
}

func (m *Mock) SendGameReversed(matchID string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameReversedCalls = append(m.SendGameReversedCalls, matchID)
	return nil
}

func (m *Mock) SendLeaderboard(entries []rating.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return nil
}

func (m *Mock) SendLeaderboardImage(png []byte, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardImageCalls = append(m.SendLeaderboardImageCalls, png)
	return nil
}

func (m *Mock) SendDecayNotice(count int, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDecayNoticeCalls = append(m.SendDecayNoticeCalls, count)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []rating.LeaderboardEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(entries)
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatGameRecordedResponse(result rating.GameResult, nameA, nameB string, scoreA, scoreB int) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatGameRecordedResponseFunc != nil {
		return m.FormatGameRecordedResponseFunc(result, nameA, nameB, scoreA, scoreB)
	}
	return "formatted_game_recorded", nil
}

func (m *Mock) FormatErrorResponse(err error) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatErrorCalls = append(m.FormatErrorCalls, err)
	if m.FormatErrorResponseFunc != nil {
		return m.FormatErrorResponseFunc(err)
	}
	return "formatted_error", nil
}
