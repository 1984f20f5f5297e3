package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/multierr"

	"github.com/iliyamo/restaurant-reservations/internal/model"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories, so
// the same query code runs inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReservationStore persists reservations.
type ReservationStore interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error)
	Update(ctx context.Context, r *model.Reservation) error
	// UpdateStatus moves a reservation from one status to another. It
	// returns ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uint64, from, to model.Status) error
}

// TableStore persists tables and their current occupant.
type TableStore interface {
	Create(ctx context.Context, t *model.Table) error
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	// GetByReservation returns the table reservationID occupies, or
	// ErrNotFound when it occupies none.
	GetByReservation(ctx context.Context, reservationID uint64) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	// Assign sets the occupant of a free table. It returns ErrConflict when
	// the table is already occupied.
	Assign(ctx context.Context, tableID, reservationID uint64) error
	// Release clears the occupant of a table. It returns ErrConflict when
	// the table is not occupied by reservationID.
	Release(ctx context.Context, tableID, reservationID uint64) error
	// Vacate frees whatever table reservationID occupies. It is not an
	// error when the reservation occupies no table.
	Vacate(ctx context.Context, reservationID uint64) error
}

// Gateway is the single entry point to persistence. Managers receive it
// explicitly; there is no package level database handle.
type Gateway interface {
	Reservations() ReservationStore
	Tables() TableStore
	// InTx runs fn inside one transaction. The gateway passed to fn is
	// bound to the transaction. The transaction commits when fn returns
	// nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Gateway) error) error
}

// Store is the database/sql implementation of Gateway.
type Store struct {
	db *sql.DB
	q  DBTX
	// inTx is set on the copy handed to an InTx callback.
	inTx bool
}

var _ Gateway = (*Store)(nil)

// NewStore returns a Store bound to db.
func NewStore(db *sql.DB) *Store { return &Store{db: db, q: db} }

// DB exposes the underlying pool for health checks and migrations.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Reservations() ReservationStore { return &ReservationRepo{q: s.q} }

func (s *Store) Tables() TableStore { return &TableRepo{q: s.q} }

// InTx implements Gateway. Nested calls reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx Gateway) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				err = multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapError(err))
	}
	committed = true
	return nil
}
