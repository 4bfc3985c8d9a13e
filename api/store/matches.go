/* matches.go
 * Contains the methods for interacting with the matches table
 */

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MatchesForWeek fetches every match in a week, left-joined with the given
// user's existing prediction per match, ordered by start time ascending.
// Postconditions: returns one MatchPick per match in the week; PredictedWinner is empty where the user has no pick
func (s *Store) MatchesForWeek(ctx context.Context, userID string, week int) ([]MatchPick, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.team_a, m.team_b, m.start_time, m.stage, m.week, p.predicted_winner
		FROM matches m
		LEFT JOIN predictions p ON m.id = p.match_id AND p.user_id = ?
		WHERE m.week = ?
		ORDER BY m.start_time`,
		userID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches for week %d: %w", week, err)
	}
	defer rows.Close()

	var picks []MatchPick
	for rows.Next() {
		var (
			pick      MatchPick
			startTime string
			predicted sql.NullString
		)
		if err := rows.Scan(&pick.ID, &pick.TeamA, &pick.TeamB, &startTime, &pick.Stage, &pick.Week, &predicted); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		pick.StartTime, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time for match %d: %w", pick.ID, err)
		}
		pick.PredictedWinner = predicted.String
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}

// GetMatch fetches a single match by id, or ErrNotFound
func (s *Store) GetMatch(ctx context.Context, id int64) (Match, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var (
		m         Match
		startTime string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, team_a, team_b, start_time, stage, week FROM matches WHERE id = ?`, id).
		Scan(&m.ID, &m.TeamA, &m.TeamB, &startTime, &m.Stage, &m.Week)
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, ErrNotFound
	}
	if err != nil {
		return Match{}, fmt.Errorf("failed to fetch match %d: %w", id, err)
	}
	m.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return Match{}, fmt.Errorf("invalid start_time for match %d: %w", id, err)
	}
	return m, nil
}

// ListMatches returns every scheduled match ordered by start time. Used by the
// match autocomplete on the admin commands.
func (s *Store) ListMatches(ctx context.Context) ([]Match, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, team_a, team_b, start_time, stage, week FROM matches ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			m         Match
			startTime string
		)
		if err := rows.Scan(&m.ID, &m.TeamA, &m.TeamB, &startTime, &m.Stage, &m.Week); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		m.StartTime, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time for match %d: %w", m.ID, err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListWeeks returns the distinct week values present in the schedule, ascending.
func (s *Store) ListWeeks(ctx context.Context) ([]int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT week FROM matches ORDER BY week`)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []int
	for rows.Next() {
		var week int
		if err := rows.Scan(&week); err != nil {
			return nil, fmt.Errorf("failed to scan week row: %w", err)
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

// AddMatch inserts a new match into the schedule and returns its id
func (s *Store) AddMatch(ctx context.Context, m Match) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (team_a, team_b, start_time, stage, week) VALUES (?, ?, ?, ?, ?)`,
		m.TeamA, m.TeamB, m.StartTime.Format(time.RFC3339), m.Stage, m.Week)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	return res.LastInsertId()
}

// UpdateMatch applies a partial edit to a match. The SET list is built from the
// provided fields only; every value is still bound as a parameter.
func (s *Store) UpdateMatch(ctx context.Context, id int64, upd MatchUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var (
		sets []string
		args []any
	)
	if upd.TeamA != nil {
		sets, args = append(sets, "team_a = ?"), append(args, *upd.TeamA)
	}
	if upd.TeamB != nil {
		sets, args = append(sets, "team_b = ?"), append(args, *upd.TeamB)
	}
	if upd.StartTime != nil {
		sets, args = append(sets, "start_time = ?"), append(args, upd.StartTime.Format(time.RFC3339))
	}
	if upd.Stage != nil {
		sets, args = append(sets, "stage = ?"), append(args, *upd.Stage)
	}
	if upd.Week != nil {
		sets, args = append(sets, "week = ?"), append(args, *upd.Week)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE matches SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMatch deletes a match and its dependent predictions in one transaction
func (s *Store) RemoveMatch(ctx context.Context, id int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM predictions WHERE match_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete predictions for match %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ImportMatches inserts a batch of matches in a single transaction. Any failed
// insert rolls the whole batch back.
func (s *Store) ImportMatches(ctx context.Context, matches []Match) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range matches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches (team_a, team_b, start_time, stage, week) VALUES (?, ?, ?, ?, ?)`,
			m.TeamA, m.TeamB, m.StartTime.Format(time.RFC3339), m.Stage, m.Week); err != nil {
			return fmt.Errorf("failed to insert match %s vs %s: %w", m.TeamA, m.TeamB, err)
		}
	}
	return tx.Commit()
}
