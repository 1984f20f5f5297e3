package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/model"
)

// Sunday 2026-10-18 12:00 UTC.
var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newPipeline() *Pipeline {
	return New(model.DefaultPolicy(), func() time.Time { return fixedNow })
}

func intPtr(n int) *int { return &n }

func validInput() model.ReservationInput {
	return model.ReservationInput{
		FirstName:       "Al",
		LastName:        "Lee",
		MobileNumber:    "800-555-0100",
		ReservationDate: "2026-10-19",
		ReservationTime: "18:00",
		People:          intPtr(4),
	}
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok, "expected apperr.Error, got %T", err)
	assert.Equal(t, apperr.CodeValidation, e.Code())
	assert.Equal(t, msg, e.Message())
}

func TestReservationAcceptsValidInput(t *testing.T) {
	p := newPipeline()
	require.NoError(t, p.Reservation(OpCreate, validInput()))
	require.NoError(t, p.Reservation(OpUpdate, validInput()))

	in := validInput()
	in.Status = "booked"
	require.NoError(t, p.Reservation(OpCreate, in))
}

func TestReservationChecksRunInOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.ReservationInput)
		msg    string
	}{
		{"missing first name", func(in *model.ReservationInput) { in.FirstName = "" }, "Field 'first_name' is missing."},
		{"missing people wins over bad date", func(in *model.ReservationInput) {
			in.People = nil
			in.ReservationDate = "not-a-date"
		}, "Field 'people' is missing."},
		{"bad date", func(in *model.ReservationInput) { in.ReservationDate = "2026-13-40" }, "'reservation_date' must be a valid date."},
		{"bad time format", func(in *model.ReservationInput) { in.ReservationTime = "6pm" }, "'reservation_time' must be a valid time (HH:MM)."},
		{"time out of range", func(in *model.ReservationInput) { in.ReservationTime = "25:00" }, "'reservation_time' must be a valid time (HH:MM)."},
		{"zero people", func(in *model.ReservationInput) { in.People = intPtr(0) }, "'people' must be a number greater than 0."},
		{"in the past", func(in *model.ReservationInput) {
			in.ReservationDate = "2026-10-18"
			in.ReservationTime = "11:00"
		}, "Reservation must be for a future date and time."},
		{"past and tuesday reports past first", func(in *model.ReservationInput) { in.ReservationDate = "2026-10-13" }, "Reservation must be for a future date and time."},
		{"closed tuesday", func(in *model.ReservationInput) { in.ReservationDate = "2026-10-20" }, "The restaurant is closed on Tuesdays."},
		{"before opening", func(in *model.ReservationInput) { in.ReservationTime = "10:29" }, "Reservation time must be between 10:30 and 21:30."},
		{"after closing", func(in *model.ReservationInput) { in.ReservationTime = "21:31" }, "Reservation time must be between 10:30 and 21:30."},
		{"long first name", func(in *model.ReservationInput) { in.FirstName = strings.Repeat("a", 101) }, "'first_name' must be at most 100 characters long."},
		{"missing people wins over long name", func(in *model.ReservationInput) {
			in.People = nil
			in.LastName = strings.Repeat("b", 101)
		}, "Field 'people' is missing."},
		{"long mobile number", func(in *model.ReservationInput) { in.MobileNumber = strings.Repeat("5", 33) }, "'mobile_number' must be at most 32 characters long."},
		{"party beyond column range", func(in *model.ReservationInput) { in.People = intPtr(int(model.MaxCount) + 1) }, "'people' must be at most 4294967295."},
		{"explicit seated status", func(in *model.ReservationInput) { in.Status = "seated" }, "New reservations cannot have a status of 'seated'."},
	}
	p := newPipeline()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			requireValidation(t, p.Reservation(OpCreate, in), tc.msg)
		})
	}
}

func TestReservationHoursAreInclusive(t *testing.T) {
	p := newPipeline()
	for _, tm := range []string{"10:30", "21:30"} {
		in := validInput()
		in.ReservationTime = tm
		assert.NoError(t, p.Reservation(OpCreate, in), tm)
	}
}

func TestUpdateIgnoresStatusField(t *testing.T) {
	in := validInput()
	in.Status = "finished"
	assert.NoError(t, newPipeline().Reservation(OpUpdate, in))
}

func TestReservationRejectsForeignOperation(t *testing.T) {
	err := newPipeline().Reservation(OpTableCreate, validInput())
	require.Error(t, err)
	assert.False(t, apperr.Is(err, apperr.CodeValidation))
}

func TestPolicyIsConfigurable(t *testing.T) {
	policy := model.Policy{
		ClosedDays: []time.Weekday{time.Monday},
		OpensAt:    model.TimeOfDay(8 * 60),
		ClosesAt:   model.TimeOfDay(23 * 60),
		Location:   time.UTC,
	}
	p := New(policy, func() time.Time { return fixedNow })

	in := validInput()
	requireValidation(t, p.Reservation(OpCreate, in), "The restaurant is closed on Mondays.")

	in.ReservationDate = "2026-10-20"
	in.ReservationTime = "22:45"
	assert.NoError(t, p.Reservation(OpCreate, in))
}

func TestTimezoneShiftsPastCheck(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	policy := model.DefaultPolicy()
	policy.Location = tokyo
	// 2026-10-18 12:00 UTC is 21:00 in Tokyo.
	p := New(policy, func() time.Time { return fixedNow })

	in := validInput()
	in.ReservationDate = "2026-10-18"
	in.ReservationTime = "20:30"
	requireValidation(t, p.Reservation(OpCreate, in), "Reservation must be for a future date and time.")

	in.ReservationTime = "21:15"
	assert.NoError(t, p.Reservation(OpCreate, in))
}

func TestTableValidation(t *testing.T) {
	p := newPipeline()
	require.NoError(t, p.Table(model.TableInput{TableName: "T1", Capacity: intPtr(4)}))

	requireValidation(t, p.Table(model.TableInput{Capacity: intPtr(4)}), "Field 'table_name' is missing.")
	requireValidation(t, p.Table(model.TableInput{TableName: "T", Capacity: intPtr(4)}), "'table_name' must be at least 2 characters long.")
	requireValidation(t, p.Table(model.TableInput{TableName: "T1"}), "Field 'capacity' is missing.")
	requireValidation(t, p.Table(model.TableInput{TableName: "T1", Capacity: intPtr(0)}), "'capacity' must be a number greater than 0.")
	requireValidation(t, p.Table(model.TableInput{TableName: strings.Repeat("T", 101), Capacity: intPtr(4)}), "'table_name' must be at most 100 characters long.")
	requireValidation(t, p.Table(model.TableInput{TableName: "T1", Capacity: intPtr(int(model.MaxCount) + 1)}), "'capacity' must be at most 4294967295.")
	require.NoError(t, p.Table(model.TableInput{TableName: strings.Repeat("é", 100), Capacity: intPtr(int(model.MaxCount))}))
	requireValidation(t, p.Table(model.TableInput{TableName: strings.Repeat("T", 101)}), "Field 'capacity' is missing.")
}

func TestStatusUpdate(t *testing.T) {
	p := newPipeline()
	assert.NoError(t, p.StatusUpdate(model.StatusBooked, "cancelled"))

	requireValidation(t, p.StatusUpdate(model.StatusBooked, "unknown"),
		"Status 'unknown' is unknown. Must be one of: booked, seated, finished, cancelled.")
	requireValidation(t, p.StatusUpdate(model.StatusBooked, ""),
		"Field 'status' is missing. Must be one of: booked, seated, finished, cancelled.")
	for _, target := range model.Statuses {
		requireValidation(t, p.StatusUpdate(model.StatusFinished, string(target)), "A finished reservation cannot be updated.")
	}
}

func TestDateFilter(t *testing.T) {
	p := newPipeline()
	assert.NoError(t, p.Date("2026-10-19"))
	requireValidation(t, p.Date("19/10/2026"), "'date' must be a valid date (YYYY-MM-DD).")
}
