/* admins.go
 * Contains the methods for interacting with the admin_users table
 */

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IsAdmin reports whether the given user id is present in the admin set.
// Always consults the database; admin membership is never cached.
func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM admin_users WHERE id = ?`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin status for user %s: %w", userID, err)
	}
	return true, nil
}

// AddAdmin grants a user the admin role. Adding an existing admin is a no-op.
func (s *Store) AddAdmin(ctx context.Context, userID string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admin_users (id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("failed to add admin %s: %w", userID, err)
	}
	return nil
}

// RemoveAdmin revokes a user's admin role, or returns ErrNotFound if the user
// was not an admin.
func (s *Store) RemoveAdmin(ctx context.Context, userID string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to remove admin %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
