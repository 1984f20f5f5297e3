// Package validation implements the ordered checks applied to reservation
// and table input before any write. Checks run in a fixed order and stop at
// the first failure:
//
//  1. required fields
//  2. type and format
//  3. temporal rules (reservations only)
//  4. status rules
//
// Every failure is an apperr validation error. The pipeline has no side
// effects; its only outside input is the clock.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/model"
)

// Operation names the kind of request being validated.
type Operation string

const (
	OpCreate       Operation = "create"
	OpUpdate       Operation = "update"
	OpStatusUpdate Operation = "status-update"
	OpTableCreate  Operation = "table-create"
)

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Pipeline validates input against the restaurant policy.
type Pipeline struct {
	policy   model.Policy
	now      func() time.Time
	validate *validator.Validate
}

// New builds a pipeline. A nil clock defaults to time.Now.
func New(policy model.Policy, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{policy: policy, now: now, validate: newValidator()}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func (p *Pipeline) Policy() model.Policy { return p.policy }

// Reservation validates a create or update field set.
func (p *Pipeline) Reservation(op Operation, in model.ReservationInput) error {
	if op != OpCreate && op != OpUpdate {
		return fmt.Errorf("validation: operation %q does not apply to reservation fields", op)
	}
	if err := p.required(&in); err != nil {
		return err
	}
	date, clock, err := parseSlot(in)
	if err != nil {
		return err
	}
	if err := p.temporal(date, clock); err != nil {
		return err
	}
	if op == OpCreate && in.Status != "" && model.Status(in.Status) != model.StatusBooked {
		return apperr.Validation("New reservations cannot have a status of '%s'.", in.Status)
	}
	return nil
}

// Table validates the body of a table creation.
func (p *Pipeline) Table(in model.TableInput) error {
	if err := p.required(&in); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.TableName) > model.MaxNameLength {
		return apperr.Validation("'table_name' must be at most %d characters long.", model.MaxNameLength)
	}
	if int64(*in.Capacity) > model.MaxCount {
		return apperr.Validation("'capacity' must be at most %d.", model.MaxCount)
	}
	return nil
}

// StatusUpdate validates a requested status against the reservation's
// current one. Legality of the transition itself is decided by the
// lifecycle manager.
func (p *Pipeline) StatusUpdate(current model.Status, target string) error {
	if !model.Status(target).Valid() {
		if target == "" {
			return apperr.Validation("Field 'status' is missing. Must be one of: %s.", model.StatusNames())
		}
		return apperr.Validation("Status '%s' is unknown. Must be one of: %s.", target, model.StatusNames())
	}
	if current == model.StatusFinished {
		return apperr.Validation("A finished reservation cannot be updated.")
	}
	return nil
}

// Date validates a date used as a list filter.
func (p *Pipeline) Date(raw string) error {
	if _, err := time.Parse(model.DateLayout, raw); err != nil {
		return apperr.Validation("'date' must be a valid date (YYYY-MM-DD).")
	}
	return nil
}

func (p *Pipeline) required(in any) error {
	err := p.validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperr.Validation("invalid request body")
	}
	return fieldError(errs[0])
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperr.Validation("Field '%s' is missing.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return apperr.Validation("'%s' must be at least %s characters long.", field, fe.Param())
		}
		return apperr.Validation("'%s' must be a number greater than 0.", field)
	}
	return apperr.Validation("'%s' is invalid.", field)
}

func parseSlot(in model.ReservationInput) (time.Time, model.TimeOfDay, error) {
	if err := lengths(in); err != nil {
		return time.Time{}, 0, err
	}
	date, err := time.Parse(model.DateLayout, in.ReservationDate)
	if err != nil {
		return time.Time{}, 0, apperr.Validation("'reservation_date' must be a valid date.")
	}
	if !timePattern.MatchString(in.ReservationTime) {
		return time.Time{}, 0, apperr.Validation("'reservation_time' must be a valid time (HH:MM).")
	}
	clock, err := model.ParseTimeOfDay(in.ReservationTime)
	if err != nil {
		return time.Time{}, 0, apperr.Validation("'reservation_time' must be a valid time (HH:MM).")
	}
	if in.People == nil || *in.People < 1 {
		return time.Time{}, 0, apperr.Validation("'people' must be a number greater than 0.")
	}
	if int64(*in.People) > model.MaxCount {
		return time.Time{}, 0, apperr.Validation("'people' must be at most %d.", model.MaxCount)
	}
	return date, clock, nil
}

// lengths checks the string fields against their column widths.
func lengths(in model.ReservationInput) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"first_name", in.FirstName, model.MaxNameLength},
		{"last_name", in.LastName, model.MaxNameLength},
		{"mobile_number", in.MobileNumber, model.MaxMobileLength},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > f.max {
			return apperr.Validation("'%s' must be at most %d characters long.", f.name, f.max)
		}
	}
	return nil
}

func (p *Pipeline) temporal(date time.Time, clock model.TimeOfDay) error {
	loc := p.policy.Loc()
	at := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	if at.Before(p.now().In(loc)) {
		return apperr.Validation("Reservation must be for a future date and time.")
	}
	if p.policy.IsClosedOn(at.Weekday()) {
		return apperr.Validation("The restaurant is closed on %ss.", at.Weekday())
	}
	if !p.policy.WithinHours(clock) {
		return apperr.Validation("Reservation time must be between %s and %s.", p.policy.OpensAt, p.policy.ClosesAt)
	}
	return nil
}
