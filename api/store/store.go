/* store.go
 * Contains the Store struct and NewStore function. The methods for this package are split across
 * matches.go, predictions.go, results.go, teams.go and admins.go. Each of these files contains the
 * methods for interacting with that part of the database.
 */

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultQueryTimeout bounds every individual statement so a wedged database
// cannot stall an interaction handler indefinitely.
const DefaultQueryTimeout = 5 * time.Second

type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// NewStore opens (or creates) the SQLite database at dbPath, enables foreign key
// enforcement and bootstraps the schema.
// Postconditions: returns a ready-to-use Store, or an error if the database could not be opened or migrated
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required but none was provided")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, timeout: DefaultQueryTimeout}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_a TEXT NOT NULL,
			team_b TEXT NOT NULL,
			start_time TEXT NOT NULL,
			stage TEXT NOT NULL,
			week INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			user_id TEXT NOT NULL,
			match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			predicted_winner TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			UNIQUE(user_id, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			match_id INTEGER UNIQUE NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			team_a_score INTEGER NOT NULL,
			team_b_score INTEGER NOT NULL,
			match_winner TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_week ON matches(week)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_match ON predictions(match_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// opCtx derives the bounded context every statement runs under.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// DB returns the underlying database connection (used for transactions and tests)
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}
