/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import "context"

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// Matches
	MatchesForWeek(ctx context.Context, userID string, week int) ([]MatchPick, error)
	GetMatch(ctx context.Context, id int64) (Match, error)
	ListMatches(ctx context.Context) ([]Match, error)
	ListWeeks(ctx context.Context) ([]int, error)
	AddMatch(ctx context.Context, m Match) (int64, error)
	UpdateMatch(ctx context.Context, id int64, upd MatchUpdate) error
	RemoveMatch(ctx context.Context, id int64) error
	ImportMatches(ctx context.Context, matches []Match) error

	// Predictions
	UpsertPrediction(ctx context.Context, p Prediction) error
	CountPredictions(ctx context.Context, matchID int64) (int, error)

	// Results
	UpsertResult(ctx context.Context, r Result) error
	GetResult(ctx context.Context, matchID int64) (Result, error)

	// Teams
	ListTeams(ctx context.Context) ([]string, error)
	AddTeam(ctx context.Context, name string) error

	// Admins
	IsAdmin(ctx context.Context, userID string) (bool, error)
	AddAdmin(ctx context.Context, userID string) error
	RemoveAdmin(ctx context.Context, userID string) error

	Close() error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
