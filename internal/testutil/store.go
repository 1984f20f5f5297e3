// Package testutil holds helpers shared by package tests: a SQLite backed
// repository.Store and a settable clock.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservations/internal/repository"
)

// schema mirrors the MySQL migrations closely enough for the repository
// queries to run unchanged.
const schema = `
CREATE TABLE reservations (
	reservation_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name       TEXT NOT NULL,
	last_name        TEXT NOT NULL,
	mobile_number    TEXT NOT NULL,
	mobile_digits    TEXT NOT NULL DEFAULT '',
	reservation_date DATE NOT NULL,
	reservation_time TIME NOT NULL,
	people           INTEGER NOT NULL,
	status           TEXT NOT NULL DEFAULT 'booked'
	                 CHECK (status IN ('booked', 'seated', 'finished', 'cancelled')),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_reservations_date ON reservations (reservation_date, reservation_time);

CREATE TABLE ` + "`tables`" + ` (
	table_id       INTEGER PRIMARY KEY AUTOINCREMENT,
	table_name     TEXT NOT NULL,
	capacity       INTEGER NOT NULL CHECK (capacity >= 1),
	reservation_id INTEGER UNIQUE REFERENCES reservations (reservation_id) ON DELETE SET NULL,
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// OpenDB opens a fresh SQLite database in a temporary directory with the
// reservations schema applied. It is closed when the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// SQLite allows one writer; a single connection also serialises
	// concurrent transactions the way row locks do on MySQL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

// NewStore returns a repository.Store backed by OpenDB.
func NewStore(t testing.TB) *repository.Store {
	t.Helper()
	return repository.NewStore(OpenDB(t))
}
