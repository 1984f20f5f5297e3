// Package repository implements the persistence gateway over database/sql.
// Repositories return the sentinel values below so that the service layer
// can tell a missing row apart from a write that lost a guard.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a guarded write affected no rows because
// the row no longer matches the expected state, or when the database
// rejects the write with a duplicate key, deadlock or lock timeout.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers treated as conflicts.
const (
	mysqlDuplicateEntry   = 1062
	mysqlLockWaitTimeout  = 1205
	mysqlDeadlockDetected = 1213
)

// mapError converts driver errors that describe lost races into
// ErrConflict. Other errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry, mysqlLockWaitTimeout, mysqlDeadlockDetected:
			return ErrConflict
		}
	}
	return err
}
