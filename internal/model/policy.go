package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default restaurant policy. The restaurant is closed on Tuesdays and takes
// reservations between 10:30 and 21:30 inclusive.
const (
	DefaultClosedWeekday = time.Tuesday
	DefaultOpensAt       = TimeOfDay(10*60 + 30)
	DefaultClosesAt      = TimeOfDay(21*60 + 30)
)

// TimeOfDay is a minute-precision wall clock time, stored as minutes since
// midnight.
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Policy captures the business rules used to accept a reservation slot.
//
// Fields:
//
//	ClosedDays – weekdays on which no reservation is accepted.
//	OpensAt    – earliest reservation time (inclusive).
//	ClosesAt   – latest reservation time (inclusive).
//	Location   – time zone in which reservation dates and times are read.
type Policy struct {
	ClosedDays []time.Weekday
	OpensAt    TimeOfDay
	ClosesAt   TimeOfDay
	Location   *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		ClosedDays: []time.Weekday{DefaultClosedWeekday},
		OpensAt:    DefaultOpensAt,
		ClosesAt:   DefaultClosesAt,
		Location:   time.UTC,
	}
}

// IsClosedOn reports whether d is one of the closed weekdays.
func (p Policy) IsClosedOn(d time.Weekday) bool {
	for _, c := range p.ClosedDays {
		if c == d {
			return true
		}
	}
	return false
}

// WithinHours reports whether t lies in the opening window.
func (p Policy) WithinHours(t TimeOfDay) bool {
	return t >= p.OpensAt && t <= p.ClosesAt
}

func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// ParseWeekdays parses a comma separated list of English weekday names
// ("Tuesday", "tue"). An empty string or "none" yields no closed days.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				out = append(out, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return out, nil
}
