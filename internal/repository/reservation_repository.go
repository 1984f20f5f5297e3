package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-reservations/internal/model"
)

// ReservationRepo provides CRUD operations for the reservations table.
// reservation_date and reservation_time are exchanged with the database
// in their wire formats (YYYY-MM-DD and HH:MM) so that the same queries
// run on MySQL and SQLite.
type ReservationRepo struct {
	q DBTX
}

// NewReservationRepo returns a ReservationRepo bound to the given handle.
func NewReservationRepo(q DBTX) *ReservationRepo { return &ReservationRepo{q: q} }

const reservationColumns = `reservation_id, first_name, last_name, mobile_number,
	reservation_date, reservation_time, people, status, created_at, updated_at`

// Create inserts r and refreshes it from the stored row, populating the
// generated ID and timestamps.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(first_name, last_name, mobile_number, mobile_digits, reservation_date, reservation_time, people, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber, res.MobileDigits(),
		res.Date, res.Time, res.People, string(res.Status),
	)
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
	*res = *stored
	return nil
}

// GetByID returns the reservation with the given ID or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = ?`
	res, err := scanReservation(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// List returns reservations selected by f:
//
//	MobileNumber set – rows whose mobile digits contain the digits of the
//	                   fragment, ordered by date.
//	Date set         – same-day rows that are not finished, ordered by time.
//	neither          – every row, ordered by date then time.
func (r *ReservationRepo) List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	var (
		where string
		order = `reservation_date ASC, reservation_time ASC, reservation_id ASC`
		args  []any
	)
	switch {
	case strings.TrimSpace(f.MobileNumber) != "":
		where = `WHERE mobile_digits LIKE ?`
		args = append(args, "%"+model.DigitsOnly(f.MobileNumber)+"%")
	case f.Date != "":
		where = `WHERE reservation_date = ? AND status <> ?`
		order = `reservation_time ASC, reservation_id ASC`
		args = append(args, f.Date, string(model.StatusFinished))
	}
	q := `SELECT ` + reservationColumns + ` FROM reservations ` + where + ` ORDER BY ` + order
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

// Update overwrites the editable fields of res. Status is not touched;
// use UpdateStatus for that. res is refreshed from the stored row.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
		SET first_name = ?, last_name = ?, mobile_number = ?, mobile_digits = ?,
		    reservation_date = ?, reservation_time = ?, people = ?, updated_at = CURRENT_TIMESTAMP
		WHERE reservation_id = ?`
	result, err := r.q.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber, res.MobileDigits(),
		res.Date, res.Time, res.People, res.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if err := expectOne(result, ErrNotFound); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// UpdateStatus implements ReservationStore.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.Status) error {
	const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE reservation_id = ? AND status = ?`
	result, err := r.q.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return mapError(err)
	}
	return expectOne(result, ErrConflict)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var (
		res    model.Reservation
		date   dateValue
		clock  string
		status string
	)
	err := s.Scan(
		&res.ID, &res.FirstName, &res.LastName, &res.MobileNumber,
		&date, &clock, &res.People, &status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Date = date.String()
	// MySQL returns TIME columns with seconds.
	if len(clock) > len(model.TimeLayout) {
		clock = clock[:len(model.TimeLayout)]
	}
	res.Time = clock
	res.Status = model.Status(status)
	return &res, nil
}

// dateValue scans a DATE column whether the driver yields a time.Time or
// the raw text.
type dateValue struct {
	s string
}

func (d *dateValue) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.s = v.Format(model.DateLayout)
	case string:
		d.s = trimDate(v)
	case []byte:
		d.s = trimDate(string(v))
	case nil:
		d.s = ""
	default:
		return fmt.Errorf("repository: cannot scan %T into date", src)
	}
	return nil
}

func (d dateValue) String() string { return d.s }

func trimDate(s string) string {
	if len(s) > len(model.DateLayout) {
		return s[:len(model.DateLayout)]
	}
	return s
}

// expectOne returns miss when the statement affected no rows.
func expectOne(result sql.Result, miss error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return miss
	}
	return nil
}
