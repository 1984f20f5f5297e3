package service

import (
	"context"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/queue"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
)

// TableService assigns reservations to tables and frees them again. Seat
// and Finish each run in a single transaction so that the table and the
// reservation never disagree about who is sitting where.
type TableService struct {
	deps Deps
}

func NewTableService(deps Deps) *TableService {
	return &TableService{deps: deps.withDefaults()}
}

func (s *TableService) List(ctx context.Context) ([]model.Table, error) {
	list, err := s.deps.Gateway.Tables().List(ctx)
	if err != nil {
		return nil, storeError(err, nil, nil, "list tables")
	}
	return list, nil
}

func (s *TableService) Create(ctx context.Context, in model.TableInput) (*model.Table, error) {
	if err := s.deps.Validator.Table(in); err != nil {
		return nil, err
	}
	t := &model.Table{Name: in.TableName, Capacity: *in.Capacity}
	if err := s.deps.Gateway.Tables().Create(ctx, t); err != nil {
		return nil, storeError(err, nil, nil, "create table")
	}
	return t, nil
}

// Seat assigns the reservation named in in to the table. The checks run
// in this order, all inside one transaction:
//
//  1. the table exists
//  2. the reservation exists
//  3. the reservation is booked (not already seated, finished or cancelled)
//  4. the table seats the whole party
//  5. the table is free
//
// Both writes are guarded; losing a race to another seat yields a conflict
// and nothing is changed.
func (s *TableService) Seat(ctx context.Context, tableID uint64, in model.SeatInput) (seating *model.Seating, err error) {
	defer func() { s.deps.Metrics.Seating(outcomeOf(err)) }()

	if in.ReservationID == nil {
		return nil, apperr.Validation("reservation_id is required.")
	}
	reservationID := *in.ReservationID

	err = s.deps.Gateway.InTx(ctx, func(tx repository.Gateway) error {
		table, err := tx.Tables().GetByID(ctx, tableID)
		if err != nil {
			return storeError(err, TableNotFound(tableID), nil, "get table")
		}
		res, err := tx.Reservations().GetByID(ctx, reservationID)
		if err != nil {
			return storeError(err, ReservationNotFound(reservationID), nil, "get reservation")
		}
		if err := seatable(res); err != nil {
			return err
		}
		if table.Capacity < res.People {
			return apperr.Validation("Table capacity (%d) is insufficient for reservation party size (%d).",
				table.Capacity, res.People)
		}
		if table.Occupied() {
			return apperr.Conflict("Table is currently occupied.")
		}

		if err := tx.Tables().Assign(ctx, tableID, reservationID); err != nil {
			return storeError(err, nil, apperr.Conflict("Table is currently occupied."), "assign table")
		}
		if err := tx.Reservations().UpdateStatus(ctx, reservationID, model.StatusBooked, model.StatusSeated); err != nil {
			return storeError(err, nil, apperr.Conflict("Reservation %d is no longer booked.", reservationID), "seat reservation")
		}

		seating = &model.Seating{Status: model.StatusSeated}
		if seating.Table, err = tx.Tables().GetByID(ctx, tableID); err != nil {
			return storeError(err, nil, nil, "reload table")
		}
		if seating.Reservation, err = tx.Reservations().GetByID(ctx, reservationID); err != nil {
			return storeError(err, nil, nil, "reload reservation")
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Ensure(err, "seat reservation")
	}

	s.deps.Metrics.Transition(string(model.StatusBooked), string(model.StatusSeated))
	s.deps.publish(ctx, queue.NewEvent(queue.EventReservationSeated,
		reservationID, string(model.StatusBooked), string(model.StatusSeated),
		seating.Reservation.People, s.deps.Now()).WithTable(seating.Table.ID, seating.Table.Name))
	return seating, nil
}

// Finish frees the table and finishes its occupant in one transaction.
func (s *TableService) Finish(ctx context.Context, tableID uint64) (seating *model.Seating, err error) {
	defer func() { s.deps.Metrics.Finish(outcomeOf(err)) }()

	err = s.deps.Gateway.InTx(ctx, func(tx repository.Gateway) error {
		table, err := tx.Tables().GetByID(ctx, tableID)
		if err != nil {
			return storeError(err, TableNotFound(tableID), nil, "get table")
		}
		if !table.Occupied() {
			return apperr.Validation("Table is not occupied.")
		}
		reservationID := *table.ReservationID

		if err := tx.Reservations().UpdateStatus(ctx, reservationID, model.StatusSeated, model.StatusFinished); err != nil {
			return storeError(err, nil, apperr.Conflict("Reservation %d is not seated.", reservationID), "finish reservation")
		}
		if err := tx.Tables().Release(ctx, tableID, reservationID); err != nil {
			return storeError(err, nil, apperr.Conflict("Table %d is no longer occupied by reservation %d.", tableID, reservationID), "release table")
		}

		seating = &model.Seating{Status: model.StatusFinished}
		if seating.Table, err = tx.Tables().GetByID(ctx, tableID); err != nil {
			return storeError(err, nil, nil, "reload table")
		}
		if seating.Reservation, err = tx.Reservations().GetByID(ctx, reservationID); err != nil {
			return storeError(err, nil, nil, "reload reservation")
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Ensure(err, "finish table")
	}

	s.deps.Metrics.Transition(string(model.StatusSeated), string(model.StatusFinished))
	s.deps.publish(ctx, queue.NewEvent(queue.EventTableFinished,
		seating.Reservation.ID, string(model.StatusSeated), string(model.StatusFinished),
		seating.Reservation.People, s.deps.Now()).WithTable(seating.Table.ID, seating.Table.Name))
	return seating, nil
}
