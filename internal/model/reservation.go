package model

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// Wire formats of the reservation date and time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Column limits of the reservations and tables schema.
const (
	MaxNameLength         = 100
	MaxMobileLength       = 32
	MaxCount        int64 = math.MaxUint32
)

// Reservation records a customer's booking for a party at a given date
// and time. A reservation never stores the table it occupies; the table
// points at the reservation instead.
//
// Fields:
//
//	ID           – primary key identifier.
//	FirstName    – customer's first name.
//	LastName     – customer's last name.
//	MobileNumber – free-form contact number as entered.
//	Date         – reservation date (YYYY-MM-DD).
//	Time         – reservation time (HH:MM).
//	People       – party size.
//	Status       – lifecycle state (booked, seated, finished, cancelled).
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64    `json:"reservation_id"`   // reservations.reservation_id
	FirstName    string    `json:"first_name"`       // reservations.first_name
	LastName     string    `json:"last_name"`        // reservations.last_name
	MobileNumber string    `json:"mobile_number"`    // reservations.mobile_number
	Date         string    `json:"reservation_date"` // reservations.reservation_date
	Time         string    `json:"reservation_time"` // reservations.reservation_time
	People       int       `json:"people"`           // reservations.people
	Status       Status    `json:"status"`           // reservations.status
	CreatedAt    time.Time `json:"created_at"`       // reservations.created_at
	UpdatedAt    time.Time `json:"updated_at"`       // reservations.updated_at
}

// MobileDigits returns the mobile number with every non-digit removed. It
// is persisted next to the raw number and used by the mobile search.
func (r Reservation) MobileDigits() string {
	return DigitsOnly(r.MobileNumber)
}

// DigitsOnly strips every character that is not a decimal digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch < unicode.MaxASCII && unicode.IsDigit(ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// ReservationInput is the client supplied field set for create and update.
// People is a pointer so that a missing value can be told apart from zero.
type ReservationInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	MobileNumber    string `json:"mobile_number" validate:"required"`
	ReservationDate string `json:"reservation_date" validate:"required"`
	ReservationTime string `json:"reservation_time" validate:"required"`
	People          *int   `json:"people" validate:"required"`
	Status          string `json:"status,omitempty"`
}

// Apply copies the input fields onto r. Status is left untouched.
func (in ReservationInput) Apply(r *Reservation) {
	r.FirstName = in.FirstName
	r.LastName = in.LastName
	r.MobileNumber = in.MobileNumber
	r.Date = in.ReservationDate
	r.Time = in.ReservationTime
	if in.People != nil {
		r.People = *in.People
	}
}

// ReservationFilter selects reservations for listing. MobileNumber takes
// precedence over Date when both are set.
type ReservationFilter struct {
	Date         string
	MobileNumber string
}

// StatusInput is the body of a status update.
type StatusInput struct {
	Status string `json:"status"`
}
