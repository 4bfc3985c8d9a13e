/* test_mocks.go
 * Contains an in-memory mock implementation of store.Interface used by the api and bot
 * package tests.
 */

package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nec-pickems/api/store"
)

// MockStore is an in-memory store.Interface implementation for testing.
// FailWith, when set, is returned by every data method to simulate storage
// failure.
type MockStore struct {
	mu          sync.Mutex
	nextMatchID int64
	matches     map[int64]store.Match
	predictions map[string]store.Prediction // keyed user_id|match_id
	results     map[int64]store.Result
	admins      map[string]bool
	teams       map[string]bool

	FailWith error
}

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		nextMatchID: 1,
		matches:     make(map[int64]store.Match),
		predictions: make(map[string]store.Prediction),
		results:     make(map[int64]store.Result),
		admins:      make(map[string]bool),
		teams:       make(map[string]bool),
	}
}

var _ store.Interface = (*MockStore)(nil)

func predictionKey(userID string, matchID int64) string {
	return fmt.Sprintf("%s|%d", userID, matchID)
}

// SeedMatch inserts a match directly, returning its assigned id
func (m *MockStore) SeedMatch(match store.Match) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match.ID == 0 {
		match.ID = m.nextMatchID
	}
	if match.ID >= m.nextMatchID {
		m.nextMatchID = match.ID + 1
	}
	m.matches[match.ID] = match
	return match.ID
}

// SeedAdmin marks a user as admin directly
func (m *MockStore) SeedAdmin(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[userID] = true
}

// Prediction returns the stored prediction for (user, match), if any
func (m *MockStore) Prediction(userID string, matchID int64) (store.Prediction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.predictions[predictionKey(userID, matchID)]
	return p, ok
}

// PredictionCount reports the number of stored predictions
func (m *MockStore) PredictionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.predictions)
}

// Result returns the stored result for a match, if any
func (m *MockStore) Result(matchID int64) (store.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[matchID]
	return r, ok
}

func (m *MockStore) MatchesForWeek(ctx context.Context, userID string, week int) ([]store.MatchPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var picks []store.MatchPick
	for _, match := range m.matches {
		if match.Week != week {
			continue
		}
		pick := store.MatchPick{Match: match}
		if p, ok := m.predictions[predictionKey(userID, match.ID)]; ok {
			pick.PredictedWinner = p.PredictedWinner
		}
		picks = append(picks, pick)
	}
	sort.Slice(picks, func(i, j int) bool { return picks[i].StartTime.Before(picks[j].StartTime) })
	return picks, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id int64) (store.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return store.Match{}, m.FailWith
	}
	match, ok := m.matches[id]
	if !ok {
		return store.Match{}, store.ErrNotFound
	}
	return match, nil
}

func (m *MockStore) ListMatches(ctx context.Context) ([]store.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var matches []store.Match
	for _, match := range m.matches {
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].StartTime.Before(matches[j].StartTime) })
	return matches, nil
}

func (m *MockStore) ListWeeks(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	seen := make(map[int]bool)
	var weeks []int
	for _, match := range m.matches {
		if !seen[match.Week] {
			seen[match.Week] = true
			weeks = append(weeks, match.Week)
		}
	}
	sort.Ints(weeks)
	return weeks, nil
}

func (m *MockStore) AddMatch(ctx context.Context, match store.Match) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	match.ID = m.nextMatchID
	m.nextMatchID++
	m.matches[match.ID] = match
	return match.ID, nil
}

func (m *MockStore) UpdateMatch(ctx context.Context, id int64, upd store.MatchUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	match, ok := m.matches[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.TeamA != nil {
		match.TeamA = *upd.TeamA
	}
	if upd.TeamB != nil {
		match.TeamB = *upd.TeamB
	}
	if upd.StartTime != nil {
		match.StartTime = *upd.StartTime
	}
	if upd.Stage != nil {
		match.Stage = *upd.Stage
	}
	if upd.Week != nil {
		match.Week = *upd.Week
	}
	m.matches[id] = match
	return nil
}

func (m *MockStore) RemoveMatch(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.matches[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.matches, id)
	for key, p := range m.predictions {
		if p.MatchID == id {
			delete(m.predictions, key)
		}
	}
	return nil
}

func (m *MockStore) ImportMatches(ctx context.Context, matches []store.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, match := range matches {
		match.ID = m.nextMatchID
		m.nextMatchID++
		m.matches[match.ID] = match
	}
	return nil
}

func (m *MockStore) UpsertPrediction(ctx context.Context, p store.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.predictions[predictionKey(p.UserID, p.MatchID)] = p
	return nil
}

func (m *MockStore) CountPredictions(ctx context.Context, matchID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	count := 0
	for _, p := range m.predictions {
		if p.MatchID == matchID {
			count++
		}
	}
	return count, nil
}

func (m *MockStore) UpsertResult(ctx context.Context, r store.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.results[r.MatchID] = r
	return nil
}

func (m *MockStore) GetResult(ctx context.Context, matchID int64) (store.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return store.Result{}, m.FailWith
	}
	r, ok := m.results[matchID]
	if !ok {
		return store.Result{}, store.ErrNotFound
	}
	return r, nil
}

func (m *MockStore) ListTeams(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var teams []string
	for team := range m.teams {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams, nil
}

func (m *MockStore) AddTeam(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.teams[name] = true
	return nil
}

func (m *MockStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	return m.admins[userID], nil
}

func (m *MockStore) AddAdmin(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.admins[userID] = true
	return nil
}

func (m *MockStore) RemoveAdmin(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if !m.admins[userID] {
		return store.ErrNotFound
	}
	delete(m.admins, userID)
	return nil
}

func (m *MockStore) Close() error { return nil }
