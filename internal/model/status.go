package model

import "strings"

// Status is the lifecycle state of a reservation. The set is closed: only
// the four constants below are valid.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusSeated    Status = "seated"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusBooked, StatusSeated, StatusFinished, StatusCancelled}

// transitions holds the legal edges of the reservation state machine.
// Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusBooked: {StatusSeated, StatusCancelled},
	StatusSeated: {StatusFinished, StatusCancelled},
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// CanTransitionTo reports whether from s to next is a legal edge.
func (s Status) CanTransitionTo(next Status) bool {
	for _, v := range transitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// StatusNames joins the valid statuses for error messages.
func StatusNames() string {
	names := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
