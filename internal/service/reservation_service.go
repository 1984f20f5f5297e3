package service

import (
	"context"
	"errors"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/queue"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
	"github.com/iliyamo/restaurant-reservations/internal/validation"
)

// ReservationService owns the reservation lifecycle:
//
//	booked -> seated -> finished
//	booked -> cancelled
//	seated -> cancelled
//
// finished and cancelled are terminal.
type ReservationService struct {
	deps Deps
}

func NewReservationService(deps Deps) *ReservationService {
	return &ReservationService{deps: deps.withDefaults()}
}

// Create validates in and stores a new booked reservation.
func (s *ReservationService) Create(ctx context.Context, in model.ReservationInput) (*model.Reservation, error) {
	if err := s.deps.Validator.Reservation(validation.OpCreate, in); err != nil {
		return nil, err
	}
	res := &model.Reservation{Status: model.StatusBooked}
	in.Apply(res)
	if err := s.deps.Gateway.Reservations().Create(ctx, res); err != nil {
		return nil, storeError(err, nil, nil, "create reservation")
	}
	return res, nil
}

func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.deps.Gateway.Reservations().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ReservationNotFound(id), nil, "get reservation")
	}
	return res, nil
}

// List applies the filter. A mobile number wins over a date; a malformed
// date is rejected.
func (s *ReservationService) List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	if f.MobileNumber == "" && f.Date != "" {
		if err := s.deps.Validator.Date(f.Date); err != nil {
			return nil, err
		}
	}
	list, err := s.deps.Gateway.Reservations().List(ctx, f)
	if err != nil {
		return nil, storeError(err, nil, nil, "list reservations")
	}
	return list, nil
}

// Update re-validates the full field set and overwrites the stored
// fields. The status is left unchanged. A seated reservation cannot grow
// beyond the capacity of the table it occupies.
func (s *ReservationService) Update(ctx context.Context, id uint64, in model.ReservationInput) (*model.Reservation, error) {
	if err := s.deps.Validator.Reservation(validation.OpUpdate, in); err != nil {
		return nil, err
	}
	var res *model.Reservation
	err := s.deps.Gateway.InTx(ctx, func(tx repository.Gateway) error {
		cur, err := tx.Reservations().GetByID(ctx, id)
		if err != nil {
			return storeError(err, ReservationNotFound(id), nil, "get reservation")
		}
		in.Apply(cur)

		table, err := tx.Tables().GetByReservation(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return storeError(err, nil, nil, "get occupied table")
		case table.Capacity < cur.People:
			return apperr.Validation("Table capacity (%d) is insufficient for reservation party size (%d).",
				table.Capacity, cur.People)
		}

		if err := tx.Reservations().Update(ctx, cur); err != nil {
			return storeError(err, ReservationNotFound(id), nil, "update reservation")
		}
		res = cur
		return nil
	})
	if err != nil {
		return nil, apperr.Ensure(err, "update reservation")
	}
	return res, nil
}

// UpdateStatus moves a reservation to target. The checks run in order:
// existence, target validity, then the transition itself. The write is
// guarded on the status that was read, so a concurrent transition makes
// this one fail with a conflict. Reaching a terminal status frees the
// table the reservation occupied, if any.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint64, target string) (*model.Reservation, error) {
	var (
		from model.Status
		res  *model.Reservation
	)
	err := s.deps.Gateway.InTx(ctx, func(tx repository.Gateway) error {
		cur, err := tx.Reservations().GetByID(ctx, id)
		if err != nil {
			return storeError(err, ReservationNotFound(id), nil, "get reservation")
		}
		if err := s.deps.Validator.StatusUpdate(cur.Status, target); err != nil {
			return err
		}
		to := model.Status(target)
		if cur.Status == model.StatusSeated && to == model.StatusSeated {
			return apperr.Conflict("This reservation is already seated.")
		}
		if !cur.Status.CanTransitionTo(to) {
			return apperr.Conflict("Cannot change reservation status from '%s' to '%s'.", cur.Status, to)
		}
		if err := tx.Reservations().UpdateStatus(ctx, id, cur.Status, to); err != nil {
			return storeError(err, nil, apperr.Conflict("Reservation %d was modified concurrently.", id), "update reservation status")
		}
		if to.IsTerminal() {
			if err := tx.Tables().Vacate(ctx, id); err != nil {
				return storeError(err, nil, nil, "vacate table")
			}
		}
		from = cur.Status
		res, err = tx.Reservations().GetByID(ctx, id)
		return storeError(err, nil, nil, "reload reservation")
	})
	if err != nil {
		return nil, apperr.Ensure(err, "update reservation status")
	}

	s.deps.Metrics.Transition(string(from), string(res.Status))
	s.deps.publish(ctx, queue.NewEvent(queue.EventReservationStatusChanged,
		res.ID, string(from), string(res.Status), res.People, s.deps.Now()))
	return res, nil
}

// Seat marks a booked reservation seated without assigning a table.
func (s *ReservationService) Seat(ctx context.Context, id uint64) (*model.Reservation, error) {
	reservations := s.deps.Gateway.Reservations()
	cur, err := reservations.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ReservationNotFound(id), nil, "get reservation")
	}
	if err := seatable(cur); err != nil {
		return nil, err
	}
	if err := reservations.UpdateStatus(ctx, id, model.StatusBooked, model.StatusSeated); err != nil {
		return nil, storeError(err, nil, apperr.Conflict("Reservation %d is no longer booked.", id), "seat reservation")
	}
	res, err := reservations.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ReservationNotFound(id), nil, "reload reservation")
	}

	s.deps.Metrics.Transition(string(model.StatusBooked), string(model.StatusSeated))
	s.deps.publish(ctx, queue.NewEvent(queue.EventReservationSeated,
		res.ID, string(model.StatusBooked), string(model.StatusSeated), res.People, s.deps.Now()))
	return res, nil
}

// seatable reports why r cannot be seated, or nil if it is booked.
func seatable(r *model.Reservation) error {
	switch r.Status {
	case model.StatusBooked:
		return nil
	case model.StatusSeated:
		return apperr.Conflict("Reservation is already seated.")
	}
	return apperr.Conflict("Reservation is %s and cannot be seated.", r.Status)
}
