/* models.go
 * This file contains the structs and sentinel errors that relate to DB objects
 */

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist. It abstracts
// the underlying sql.ErrNoRows away from the callers.
var ErrNotFound = errors.New("record not found")

// PlayoffsWeek is the reserved week value that denotes the playoff bracket.
const PlayoffsWeek = 0

type Match struct {
	ID        int64
	TeamA     string
	TeamB     string
	StartTime time.Time
	Stage     string
	Week      int
}

// MatchPick pairs a match with one user's current prediction for it.
// PredictedWinner is empty when the user has not picked a side yet.
type MatchPick struct {
	Match
	PredictedWinner string
}

type Prediction struct {
	UserID          string
	MatchID         int64
	PredictedWinner string
	Timestamp       time.Time
}

type Result struct {
	MatchID    int64
	TeamAScore int
	TeamBScore int
	Winner     string
}

// MatchUpdate carries the optional fields of a partial match edit. Nil fields
// are left untouched.
type MatchUpdate struct {
	TeamA     *string
	TeamB     *string
	StartTime *time.Time
	Stage     *string
	Week      *int
}

// IsEmpty reports whether the update would change nothing.
func (u MatchUpdate) IsEmpty() bool {
	return u.TeamA == nil && u.TeamB == nil && u.StartTime == nil && u.Stage == nil && u.Week == nil
}
