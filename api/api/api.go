/* api.go
 * This file contains the public methods for interacting with the data layer. For consistent
 * results, the bot layer should only call methods from this file, not the store or logic
 * sub packages directly.
 */

package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nec-pickems/api/logic"
	"nec-pickems/api/shared"
	"nec-pickems/api/store"
)

const (
	// DateLayout is the calendar form used by the date command options, e.g. "2025-12-06"
	DateLayout = "2006-01-02"
	// TimeLayout is the clock form used by the time command options, e.g. "4:00 PM"
	TimeLayout = "3:04 PM"
)

// API provides the operations the bot layer is built on
type API struct {
	Store store.Interface
}

// NewAPI creates a new API instance backed by the provided store
func NewAPI(s store.Interface) (*API, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required but none was provided")
	}
	return &API{Store: s}, nil
}

// WeekMatches fetches every match in a week together with the user's current
// pick per match, ordered by start time.
func (a *API) WeekMatches(ctx context.Context, user shared.User, week int) ([]store.MatchPick, error) {
	return a.Store.MatchesForWeek(ctx, user.UserID, week)
}

// SavePrediction upserts the user's pick for a match with the current timestamp.
// Repeat picks for the same match overwrite the prior choice.
func (a *API) SavePrediction(ctx context.Context, user shared.User, matchID int64, winner string) error {
	return a.Store.UpsertPrediction(ctx, store.Prediction{
		UserID:          user.UserID,
		MatchID:         matchID,
		PredictedWinner: winner,
		Timestamp:       time.Now().UTC(),
	})
}

// ParseStartTime combines a date option and a time option into a match start instant
func ParseStartTime(date, clock string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	tod, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC), nil
}

// AddMatch validates the option inputs, inserts the match and registers both
// team names for future autocomplete.
func (a *API) AddMatch(ctx context.Context, team1, team2, date, clock, stage, weekOption string) (store.Match, error) {
	week, err := logic.ParseWeek(weekOption)
	if err != nil {
		return store.Match{}, err
	}
	start, err := ParseStartTime(date, clock)
	if err != nil {
		return store.Match{}, err
	}

	m := store.Match{TeamA: team1, TeamB: team2, StartTime: start, Stage: stage, Week: week}
	m.ID, err = a.Store.AddMatch(ctx, m)
	if err != nil {
		return store.Match{}, err
	}

	for _, team := range []string{team1, team2} {
		if err := a.Store.AddTeam(ctx, team); err != nil {
			return store.Match{}, err
		}
	}
	return m, nil
}

// MatchEdit carries the optional inputs of /modify-match. Nil fields are left
// untouched. A Clock without a Date reuses the stored match date.
type MatchEdit struct {
	TeamA *string
	TeamB *string
	Date  *string
	Clock *string
	Stage *string
	Week  *string
}

// ModifyMatch applies a partial edit and returns the updated match
func (a *API) ModifyMatch(ctx context.Context, matchID int64, edit MatchEdit) (store.Match, error) {
	upd := store.MatchUpdate{TeamA: edit.TeamA, TeamB: edit.TeamB, Stage: edit.Stage}

	if edit.Week != nil {
		week, err := logic.ParseWeek(*edit.Week)
		if err != nil {
			return store.Match{}, err
		}
		upd.Week = &week
	}

	if edit.Date != nil || edit.Clock != nil {
		date, clock := "", ""
		if edit.Date != nil {
			date = *edit.Date
		}
		if edit.Clock != nil {
			clock = *edit.Clock
		}
		// A partial edit keeps the stored half of the instant
		if date == "" || clock == "" {
			existing, err := a.Store.GetMatch(ctx, matchID)
			if err != nil {
				return store.Match{}, err
			}
			if date == "" {
				date = existing.StartTime.Format(DateLayout)
			}
			if clock == "" {
				clock = existing.StartTime.Format(TimeLayout)
			}
		}
		start, err := ParseStartTime(date, clock)
		if err != nil {
			return store.Match{}, err
		}
		upd.StartTime = &start
	}

	if upd.IsEmpty() {
		return store.Match{}, fmt.Errorf("no updates were provided")
	}
	if err := a.Store.UpdateMatch(ctx, matchID, upd); err != nil {
		return store.Match{}, err
	}
	return a.Store.GetMatch(ctx, matchID)
}

// GetMatch fetches a single match by id
func (a *API) GetMatch(ctx context.Context, matchID int64) (store.Match, error) {
	return a.Store.GetMatch(ctx, matchID)
}

// PredictionCount reports how many predictions depend on a match
func (a *API) PredictionCount(ctx context.Context, matchID int64) (int, error) {
	return a.Store.CountPredictions(ctx, matchID)
}

// RemoveMatch deletes a match and every prediction that references it
func (a *API) RemoveMatch(ctx context.Context, matchID int64) error {
	return a.Store.RemoveMatch(ctx, matchID)
}

// SubmitResult validates the score combination against the match's stage,
// derives the winner and upserts the result. An illegal combination is
// rejected without a write.
func (a *API) SubmitResult(ctx context.Context, matchID int64, teamAScore, teamBScore int) (store.Match, store.Result, error) {
	m, err := a.Store.GetMatch(ctx, matchID)
	if err != nil {
		return store.Match{}, store.Result{}, err
	}
	if err := logic.ValidateScore(m.Stage, teamAScore, teamBScore); err != nil {
		return store.Match{}, store.Result{}, err
	}

	r := store.Result{
		MatchID:    matchID,
		TeamAScore: teamAScore,
		TeamBScore: teamBScore,
		Winner:     logic.Winner(m.TeamA, m.TeamB, teamAScore, teamBScore),
	}
	if err := a.Store.UpsertResult(ctx, r); err != nil {
		return store.Match{}, store.Result{}, err
	}
	return m, r, nil
}

// IsAdmin reports whether the user holds administrative privilege
func (a *API) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return a.Store.IsAdmin(ctx, userID)
}

// AddAdmin grants the admin role
func (a *API) AddAdmin(ctx context.Context, userID string) error {
	return a.Store.AddAdmin(ctx, userID)
}

// RemoveAdmin revokes the admin role
func (a *API) RemoveAdmin(ctx context.Context, userID string) error {
	return a.Store.RemoveAdmin(ctx, userID)
}

// ImportSchedule inserts a batch of matches atomically and registers the team
// names they mention.
func (a *API) ImportSchedule(ctx context.Context, matches []store.Match) error {
	if err := a.Store.ImportMatches(ctx, matches); err != nil {
		return err
	}
	for _, m := range matches {
		for _, team := range []string{m.TeamA, m.TeamB} {
			if err := a.Store.AddTeam(ctx, team); err != nil {
				return err
			}
		}
	}
	return nil
}

// PredictWeekChoices lists the weeks that actually have matches scheduled,
// labelled for the /predict integer option.
func (a *API) PredictWeekChoices(ctx context.Context, input string) ([]logic.Choice, error) {
	weeks, err := a.Store.ListWeeks(ctx)
	if err != nil {
		return nil, err
	}
	var choices []logic.Choice
	for _, week := range weeks {
		choices = append(choices, logic.Choice{Name: logic.WeekLabel(week), Value: strconv.Itoa(week)})
	}
	return logic.FilterChoices(input, choices), nil
}

// ScheduleWeekChoices lists the fixed week options of the admin schedule commands
func ScheduleWeekChoices(input string) []logic.Choice {
	choices := []logic.Choice{{Name: "Playoffs", Value: "Playoffs"}}
	for week := 1; week <= 7; week++ {
		option := logic.WeekOption(week)
		choices = append(choices, logic.Choice{Name: option, Value: option})
	}
	return logic.FilterChoices(input, choices)
}

// TeamChoices lists known team names, optionally excluding one already picked
// (team2 must not repeat team1).
func (a *API) TeamChoices(ctx context.Context, input, exclude string) ([]logic.Choice, error) {
	teams, err := a.Store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	var choices []logic.Choice
	for _, team := range teams {
		if exclude != "" && team == exclude {
			continue
		}
		choices = append(choices, logic.Choice{Name: team, Value: team})
	}
	return logic.FilterChoices(input, choices), nil
}

// MatchChoices lists every scheduled match for the admin match option
func (a *API) MatchChoices(ctx context.Context, input string) ([]logic.Choice, error) {
	matches, err := a.Store.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	var choices []logic.Choice
	for _, m := range matches {
		choices = append(choices, logic.Choice{
			Name:  fmt.Sprintf("%s vs %s on %s", m.TeamA, m.TeamB, m.StartTime.Format("Jan 2, 3:04 PM")),
			Value: strconv.FormatInt(m.ID, 10),
		})
	}
	return logic.FilterChoices(input, choices), nil
}

// DateChoices suggests today plus the next nine days
func DateChoices(input string, now time.Time) []logic.Choice {
	var choices []logic.Choice
	for i := 0; i < 10; i++ {
		day := now.AddDate(0, 0, i)
		name := day.Format(DateLayout)
		switch i {
		case 0:
			name = "Today"
		case 1:
			name = "Tomorrow"
		}
		choices = append(choices, logic.Choice{Name: name, Value: day.Format(DateLayout)})
	}
	return logic.FilterChoices(input, choices)
}

// TimeChoices suggests evening start times in 15 minute steps (4:00 PM to 11:45 PM)
func TimeChoices(input string) []logic.Choice {
	var choices []logic.Choice
	for hour := 16; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 15 {
			clock := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format(TimeLayout)
			choices = append(choices, logic.Choice{Name: clock, Value: clock})
		}
	}
	return logic.FilterChoices(input, choices)
}

// StageChoices lists the recognised stage labels
func StageChoices(input string) []logic.Choice {
	stages := []string{"Regular Season", "Playoffs", "Semifinals", logic.StageFinals}
	var choices []logic.Choice
	for _, stage := range stages {
		choices = append(choices, logic.Choice{Name: stage, Value: stage})
	}
	return logic.FilterChoices(input, choices)
}
