/* api_test.go
 * Contains unit tests for the API facade using the in-memory mock store
 */

package api

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nec-pickems/api/logic"
	"nec-pickems/api/shared"
	"nec-pickems/api/store"
)

func choiceNames(choices []logic.Choice) []string {
	var names []string
	for _, choice := range choices {
		names = append(names, choice.Name)
	}
	return names
}

func newTestAPI(t *testing.T) (*API, *MockStore) {
	t.Helper()
	mockStore := NewMockStore()
	a, err := NewAPI(mockStore)
	require.NoError(t, err)
	return a, mockStore
}

func TestNewAPI_RequiresStore(t *testing.T) {
	_, err := NewAPI(nil)
	assert.Error(t, err)
}

func TestAddMatch(t *testing.T) {
	a, mockStore := newTestAPI(t)

	m, err := a.AddMatch(context.Background(), "Alpha", "Beta", "2025-12-06", "4:00 PM", "Regular Season", "#3")
	require.NoError(t, err)

	assert.Equal(t, "Alpha", m.TeamA)
	assert.Equal(t, "Beta", m.TeamB)
	assert.Equal(t, 3, m.Week)
	assert.Equal(t, time.Date(2025, 12, 6, 16, 0, 0, 0, time.UTC), m.StartTime)
	assert.NotZero(t, m.ID)

	// Both team names become autocomplete candidates
	teams, err := mockStore.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, teams)
}

func TestAddMatch_PlayoffsWeek(t *testing.T) {
	a, _ := newTestAPI(t)

	m, err := a.AddMatch(context.Background(), "Alpha", "Beta", "2025-12-06", "4:00 PM", "Finals", "Playoffs")
	require.NoError(t, err)
	assert.Equal(t, store.PlayoffsWeek, m.Week)
}

func TestAddMatch_InvalidInputs(t *testing.T) {
	a, mockStore := newTestAPI(t)

	tests := []struct {
		name                    string
		date, clock, weekOption string
	}{
		{"bad date", "06/12/2025", "4:00 PM", "#1"},
		{"bad time", "2025-12-06", "16:00", "#1"},
		{"bad week", "2025-12-06", "4:00 PM", "week one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AddMatch(context.Background(), "Alpha", "Beta", tt.date, tt.clock, "Finals", tt.weekOption)
			assert.Error(t, err)
		})
	}

	matches, err := mockStore.ListMatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, matches, "rejected inputs must not create matches")
}

func TestModifyMatch_TimeOnlyKeepsStoredDate(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{
		TeamA:     "Alpha",
		TeamB:     "Beta",
		StartTime: time.Date(2025, 12, 6, 16, 0, 0, 0, time.UTC),
		Stage:     "Regular Season",
		Week:      1,
	})

	clock := "8:30 PM"
	m, err := a.ModifyMatch(context.Background(), id, MatchEdit{Clock: &clock})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 6, 20, 30, 0, 0, time.UTC), m.StartTime)
}

func TestModifyMatch_NoFields(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Week: 1})

	_, err := a.ModifyMatch(context.Background(), id, MatchEdit{})
	assert.Error(t, err)
}

func TestModifyMatch_WeekChange(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Week: 1})

	week := "Playoffs"
	stage := "Finals"
	m, err := a.ModifyMatch(context.Background(), id, MatchEdit{Week: &week, Stage: &stage})
	require.NoError(t, err)
	assert.Equal(t, store.PlayoffsWeek, m.Week)
	assert.Equal(t, "Finals", m.Stage)
}

func TestSubmitResult_ValidBestOfFive(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Stage: "Finals", Week: 0})

	m, r, err := a.SubmitResult(context.Background(), id, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", m.TeamA)
	assert.Equal(t, "Alpha", r.Winner)

	stored, ok := mockStore.Result(id)
	require.True(t, ok)
	assert.Equal(t, r, stored)
}

func TestSubmitResult_InvalidComboNoWrite(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Stage: "Finals", Week: 0})

	_, _, err := a.SubmitResult(context.Background(), id, 2, 1)
	assert.Error(t, err)

	_, ok := mockStore.Result(id)
	assert.False(t, ok, "rejected result must not be written")
}

func TestSubmitResult_BestOfThreeWinnerB(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Stage: "Regular Season", Week: 2})

	_, r, err := a.SubmitResult(context.Background(), id, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "Beta", r.Winner)
}

func TestSubmitResult_UnknownMatch(t *testing.T) {
	a, _ := newTestAPI(t)
	_, _, err := a.SubmitResult(context.Background(), 99, 2, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSavePrediction_LastWriteWins(t *testing.T) {
	a, mockStore := newTestAPI(t)
	user := shared.User{UserID: "user123", Username: "TestUser"}
	id := mockStore.SeedMatch(store.Match{TeamA: "Alpha", TeamB: "Beta", StartTime: time.Now(), Week: 1})

	require.NoError(t, a.SavePrediction(context.Background(), user, id, "Alpha"))
	require.NoError(t, a.SavePrediction(context.Background(), user, id, "Beta"))

	p, ok := mockStore.Prediction("user123", id)
	require.True(t, ok)
	assert.Equal(t, "Beta", p.PredictedWinner)
	assert.Equal(t, 1, mockStore.PredictionCount())
}

func TestPredictWeekChoices(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.SeedMatch(store.Match{TeamA: "A", TeamB: "B", StartTime: time.Now(), Week: 0})
	mockStore.SeedMatch(store.Match{TeamA: "C", TeamB: "D", StartTime: time.Now(), Week: 2})

	choices, err := a.PredictWeekChoices(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, "Playoffs", choices[0].Name)
	assert.Equal(t, "0", choices[0].Value)
	assert.Equal(t, "Week 2", choices[1].Name)
}

func TestTeamChoices_ExcludesAlreadyPickedTeam(t *testing.T) {
	a, mockStore := newTestAPI(t)
	for _, team := range []string{"Alpha", "Beta", "Gamma"} {
		require.NoError(t, mockStore.AddTeam(context.Background(), team))
	}

	choices, err := a.TeamChoices(context.Background(), "", "Alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "Gamma"}, choiceNames(choices))
}

func TestScheduleWeekChoices(t *testing.T) {
	choices := ScheduleWeekChoices("")
	require.Len(t, choices, 8)
	assert.Equal(t, "Playoffs", choices[0].Name)
	assert.Equal(t, "#7", choices[7].Name)

	narrowed := ScheduleWeekChoices("#3")
	require.Len(t, narrowed, 1)
	assert.Equal(t, "#3", narrowed[0].Value)
}

func TestDateChoices(t *testing.T) {
	now := time.Date(2025, 12, 6, 10, 0, 0, 0, time.UTC)
	choices := DateChoices("", now)
	require.Len(t, choices, 10)
	assert.Equal(t, "Today", choices[0].Name)
	assert.Equal(t, "2025-12-06", choices[0].Value)
	assert.Equal(t, "Tomorrow", choices[1].Name)
	assert.Equal(t, "2025-12-08", choices[2].Value)
}

func TestTimeChoices(t *testing.T) {
	choices := TimeChoices("4:")
	require.NotEmpty(t, choices)
	assert.Equal(t, "4:00 PM", choices[0].Value)
	for _, choice := range choices {
		assert.Contains(t, choice.Name, "4:")
	}
}

func TestMatchChoices(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.SeedMatch(store.Match{
		TeamA:     "Alpha",
		TeamB:     "Beta",
		StartTime: time.Date(2025, 12, 6, 16, 0, 0, 0, time.UTC),
		Week:      1,
	})

	choices, err := a.MatchChoices(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, strconv.FormatInt(id, 10), choices[0].Value)
	assert.Contains(t, choices[0].Name, "Alpha vs Beta")
}
