/* results.go
 * Contains the methods for interacting with the results table
 */

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertResult records the authoritative outcome of a match. At most one result
// exists per match; resubmitting replaces the scores and winner atomically.
// Score-combination legality is validated by the caller before this is invoked.
func (s *Store) UpsertResult(ctx context.Context, r Result) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (match_id, team_a_score, team_b_score, match_winner)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id)
		DO UPDATE SET
			team_a_score = excluded.team_a_score,
			team_b_score = excluded.team_b_score,
			match_winner = excluded.match_winner`,
		r.MatchID, r.TeamAScore, r.TeamBScore, r.Winner)
	if err != nil {
		return fmt.Errorf("failed to upsert result for match %d: %w", r.MatchID, err)
	}
	return nil
}

// GetResult fetches the recorded result for a match, or ErrNotFound
func (s *Store) GetResult(ctx context.Context, matchID int64) (Result, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var r Result
	err := s.db.QueryRowContext(ctx,
		`SELECT match_id, team_a_score, team_b_score, match_winner FROM results WHERE match_id = ?`,
		matchID).Scan(&r.MatchID, &r.TeamAScore, &r.TeamBScore, &r.Winner)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch result for match %d: %w", matchID, err)
	}
	return r, nil
}
