/* test_helpers.go
 * Contains test helper functions for store package tests
 */

package store

import (
	"github.com/DATA-DOG/go-sqlmock"
)

// NewMockStore creates a Store backed by a sqlmock connection. The returned
// mock is used to script the statements a test expects the store to run.
func NewMockStore() (*Store, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}
	return &Store{db: db, timeout: DefaultQueryTimeout}, mock, nil
}
