/* teams.go
 * Contains the methods for interacting with the teams table. The teams table feeds
 * the team-name autocomplete on the admin schedule commands.
 */

package store

import (
	"context"
	"fmt"
)

// ListTeams returns every known team name in alphabetical order
func (s *Store) ListTeams(ctx context.Context) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, name)
	}
	return teams, rows.Err()
}

// AddTeam registers a team name. Registering an existing name is a no-op.
func (s *Store) AddTeam(ctx context.Context, name string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO teams (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to add team %s: %w", name, err)
	}
	return nil
}
