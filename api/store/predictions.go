/* predictions.go
 * Contains the methods for interacting with the predictions table
 */

package store

import (
	"context"
	"fmt"
	"time"
)

// UpsertPrediction stores a user's pick for a match. The UNIQUE(user_id, match_id)
// constraint makes repeat picks overwrite the prior choice and timestamp in a
// single atomic statement; there is no history of past choices.
func (s *Store) UpsertPrediction(ctx context.Context, p Prediction) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (user_id, match_id, predicted_winner, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, match_id)
		DO UPDATE SET predicted_winner = excluded.predicted_winner, timestamp = excluded.timestamp`,
		p.UserID, p.MatchID, p.PredictedWinner, p.Timestamp.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert prediction for user %s match %d: %w", p.UserID, p.MatchID, err)
	}
	return nil
}

// CountPredictions reports how many predictions reference a match. Used by the
// remove-match confirmation prompt.
func (s *Store) CountPredictions(ctx context.Context, matchID int64) (int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM predictions WHERE match_id = ?`, matchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count predictions for match %d: %w", matchID, err)
	}
	return count, nil
}
