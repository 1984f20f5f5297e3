package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservations/internal/model"
)

// TableRepo provides data access to the `tables` table. The table name is
// a MySQL keyword and is always quoted.
type TableRepo struct {
	q DBTX
}

// NewTableRepo returns a TableRepo bound to the given handle.
func NewTableRepo(q DBTX) *TableRepo { return &TableRepo{q: q} }

const tableColumns = `table_id, table_name, capacity, reservation_id, created_at, updated_at`

// Create inserts an unoccupied table and refreshes t from the stored row.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = "INSERT INTO `tables` (table_name, capacity) VALUES (?, ?)"
	result, err := r.q.ExecContext(ctx, q, t.Name, t.Capacity)
	if err != nil {
		return mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// GetByID returns the table with the given ID or ErrNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	q := "SELECT " + tableColumns + " FROM `tables` WHERE table_id = ?"
	t, err := scanTable(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByReservation implements TableStore.
func (r *TableRepo) GetByReservation(ctx context.Context, reservationID uint64) (*model.Table, error) {
	q := "SELECT " + tableColumns + " FROM `tables` WHERE reservation_id = ?"
	t, err := scanTable(r.q.QueryRowContext(ctx, q, reservationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// List returns every table ordered by name.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	q := "SELECT " + tableColumns + " FROM `tables` ORDER BY table_name ASC, table_id ASC"
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// Assign implements TableStore. The IS NULL guard makes the write lose
// against a concurrent assignment instead of overwriting it.
func (r *TableRepo) Assign(ctx context.Context, tableID, reservationID uint64) error {
	const q = "UPDATE `tables` SET reservation_id = ?, updated_at = CURRENT_TIMESTAMP " +
		"WHERE table_id = ? AND reservation_id IS NULL"
	result, err := r.q.ExecContext(ctx, q, reservationID, tableID)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result, ErrConflict)
}

// Release implements TableStore.
func (r *TableRepo) Release(ctx context.Context, tableID, reservationID uint64) error {
	const q = "UPDATE `tables` SET reservation_id = NULL, updated_at = CURRENT_TIMESTAMP " +
		"WHERE table_id = ? AND reservation_id = ?"
	result, err := r.q.ExecContext(ctx, q, tableID, reservationID)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result, ErrConflict)
}

// Vacate implements TableStore.
func (r *TableRepo) Vacate(ctx context.Context, reservationID uint64) error {
	const q = "UPDATE `tables` SET reservation_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE reservation_id = ?"
	_, err := r.q.ExecContext(ctx, q, reservationID)
	return mapError(err)
}

func scanTable(s rowScanner) (*model.Table, error) {
	var (
		t        model.Table
		occupant sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Capacity, &occupant, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if occupant.Valid {
		id := uint64(occupant.Int64)
		t.ReservationID = &id
	}
	return &t, nil
}
