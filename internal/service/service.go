// Package service implements the reservation lifecycle and the table
// assignment workflow on top of the persistence gateway.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/logger"
	"github.com/iliyamo/restaurant-reservations/internal/metrics"
	"github.com/iliyamo/restaurant-reservations/internal/queue"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
	"github.com/iliyamo/restaurant-reservations/internal/validation"
)

// EventPublisher delivers workflow events after a commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Deps are the collaborators shared by both services. Gateway and
// Validator are required; the rest may be left nil.
type Deps struct {
	Gateway   repository.Gateway
	Validator *validation.Pipeline
	Publisher EventPublisher
	Metrics   *metrics.WorkflowMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// publish sends ev on a best-effort basis. The operation it describes is
// already committed, so a failure is only logged.
func (d Deps) publish(ctx context.Context, ev queue.ReservationEvent) {
	if d.Publisher == nil {
		return
	}
	if err := d.Publisher.Publish(ctx, ev); err != nil {
		ctx = d.Logger.WithFields(ctx, map[string]any{
			"event_type":     string(ev.Type),
			"reservation_id": ev.ReservationID,
		})
		d.Logger.Warn(ctx, "event publish failed", err)
	}
}

// ReservationNotFound is the error for a reservation id that does not
// resolve, whether it is absent from the store or not a valid id at all.
func ReservationNotFound(id any) error {
	return apperr.NotFound("Reservation with ID %v not found.", id)
}

// TableNotFound is the table counterpart of ReservationNotFound.
func TableNotFound(id any) error {
	return apperr.NotFound("Table with ID %v not found.", id)
}

// storeError translates a repository error. notFound is returned for
// ErrNotFound and conflict for ErrConflict; anything else is internal.
func storeError(err, notFound, conflict error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repository.ErrConflict) && conflict != nil:
		return conflict
	}
	return apperr.Internal(err, op)
}

func outcomeOf(err error) string {
	switch apperr.CodeOf(err) {
	case "":
		return metrics.OutcomeSuccess
	case apperr.CodeConflict:
		return metrics.OutcomeConflict
	case apperr.CodeValidation:
		return metrics.OutcomeInvalid
	case apperr.CodeNotFound:
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}
