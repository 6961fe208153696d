package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu             sync.Mutex
	gamesRecorded  int
	gamesReversed  int
	decayRuns      int
	ratingsDecayed int
	opDurations    map[string][]float64
	notifSent      int
	notifFailed    int
	startupTime    float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		opDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncGamesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesRecorded++
}

func (m *Mock) IncGamesReversed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesReversed++
}

func (m *Mock) IncDecayRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decayRuns++
}

func (m *Mock) AddRatingsDecayed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingsDecayed += n
}

func (m *Mock) ObserveEngineOpDuration(op string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opDurations[op] = append(m.opDurations[op], seconds)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// GamesRecorded returns the number of times IncGamesRecorded was called.
func (m *Mock) GamesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesRecorded
}

// GamesReversed returns the number of times IncGamesReversed was called.
func (m *Mock) GamesReversed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesReversed
}

// RatingsDecayed returns the accumulated decayed-ratings count.
func (m *Mock) RatingsDecayed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingsDecayed
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
