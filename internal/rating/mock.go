package rating

import (
	"sync"
	"time"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc           func(p Player) error
	GetPlayerByPhoneFunc       func(phone string) (*Player, error)
	GetPlayerByIDFunc          func(id string) (*Player, error)
	GetAllPlayersFunc          func() ([]Player, error)
	DeletePlayerFunc           func(id string) error
	CreateRatingFunc           func(r Rating) error
	GetRatingFunc              func(playerID string) (*Rating, error)
	UpdateRatingFunc           func(r Rating) error
	DeleteRatingFunc           func(playerID string) error
	GetAllRatingsFunc          func() ([]Rating, error)
	GetStaleRatingsFunc        func(olderThan time.Time) ([]Rating, error)
	GetMatchFunc               func(id string) (*Match, error)
	GetAllMatchesFunc          func() ([]Match, error)
	CreateMatchWithRatingsFunc func(m Match, ratingA, ratingB Rating) (Match, error)
	DeleteMatchWithRatingsFunc func(matchID string, ratingA, ratingB Rating) error
	ListRatingsFunc            func() ([]LeaderboardEntry, error)

	// Call records
	CreatePlayerCalls           []Player
	DeletePlayerCalls           []string
	CreateRatingCalls           []Rating
	UpdateRatingCalls           []Rating
	DeleteRatingCalls           []string
	CreateMatchWithRatingsCalls []struct {
		Match   Match
		RatingA Rating
		RatingB Rating
	}
	DeleteMatchWithRatingsCalls []struct {
		MatchID string
		RatingA Rating
		RatingB Rating
	}
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = nil
	m.DeletePlayerCalls = nil
	m.CreateRatingCalls = nil
	m.UpdateRatingCalls = nil
	m.DeleteRatingCalls = nil
	m.CreateMatchWithRatingsCalls = nil
	m.DeleteMatchWithRatingsCalls = nil
}

func (m *MockStore) CreatePlayer(p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = append(m.CreatePlayerCalls, p)
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(p)
	}
	return nil
}

func (m *MockStore) GetPlayerByPhone(phone string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerByPhoneFunc != nil {
		return m.GetPlayerByPhoneFunc(phone)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerByID(id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerByIDFunc != nil {
		return m.GetPlayerByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) DeletePlayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, id)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(id)
	}
	return nil
}

func (m *MockStore) CreateRating(r Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateRatingCalls = append(m.CreateRatingCalls, r)
	if m.CreateRatingFunc != nil {
		return m.CreateRatingFunc(r)
	}
	return nil
}

func (m *MockStore) GetRating(playerID string) (*Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatingFunc != nil {
		return m.GetRatingFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) UpdateRating(r Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateRatingCalls = append(m.UpdateRatingCalls, r)
	if m.UpdateRatingFunc != nil {
		return m.UpdateRatingFunc(r)
	}
	return nil
}

func (m *MockStore) DeleteRating(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteRatingCalls = append(m.DeleteRatingCalls, playerID)
	if m.DeleteRatingFunc != nil {
		return m.DeleteRatingFunc(playerID)
	}
	return nil
}

func (m *MockStore) GetAllRatings() ([]Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllRatingsFunc != nil {
		return m.GetAllRatingsFunc()
	}
	return nil, nil
}

func (m *MockStore) GetStaleRatings(olderThan time.Time) ([]Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetStaleRatingsFunc != nil {
		return m.GetStaleRatingsFunc(olderThan)
	}
	return nil, nil
}

func (m *MockStore) GetMatch(id string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetAllMatches() ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateMatchWithRatings(match Match, ratingA, ratingB Rating) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchWithRatingsCalls = append(m.CreateMatchWithRatingsCalls, struct {
		Match   Match
		RatingA Rating
		RatingB Rating
	}{match, ratingA, ratingB})
	if m.CreateMatchWithRatingsFunc != nil {
		return m.CreateMatchWithRatingsFunc(match, ratingA, ratingB)
	}
	match.ID = formatMatchID(len(m.CreateMatchWithRatingsCalls))
	return match, nil
}

func (m *MockStore) DeleteMatchWithRatings(matchID string, ratingA, ratingB Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchWithRatingsCalls = append(m.DeleteMatchWithRatingsCalls, struct {
		MatchID string
		RatingA Rating
		RatingB Rating
	}{matchID, ratingA, ratingB})
	if m.DeleteMatchWithRatingsFunc != nil {
		return m.DeleteMatchWithRatingsFunc(matchID, ratingA, ratingB)
	}
	return nil
}

func (m *MockStore) ListRatings() ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListRatingsFunc != nil {
		return m.ListRatingsFunc()
	}
	return nil, nil
}
