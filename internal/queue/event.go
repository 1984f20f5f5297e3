// Package queue carries reservation workflow events over RabbitMQ. The
// publisher is used by the services after a commit; the consumer appends
// every event to a log file.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueueName is the durable queue all reservation events go to.
const QueueName = "reservation.events"

// EventType names a workflow event.
type EventType string

const (
	EventReservationSeated        EventType = "reservation.seated"
	EventTableFinished            EventType = "table.finished"
	EventReservationStatusChanged EventType = "reservation.status_changed"
)

// ReservationEvent is published after a seat, finish or status change has
// been committed. It carries enough data for downstream consumers to log
// or notify without querying the database.
type ReservationEvent struct {
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	ReservationID uint64    `json:"reservation_id"`
	TableID       *uint64   `json:"table_id,omitempty"`
	TableName     string    `json:"table_name,omitempty"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	People        int       `json:"people"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent returns an event with a fresh ID stamped at now.
func NewEvent(typ EventType, reservationID uint64, from, to string, people int, now time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		ReservationID: reservationID,
		FromStatus:    from,
		ToStatus:      to,
		People:        people,
		OccurredAt:    now.UTC(),
	}
}

// WithTable attaches the table the event happened at.
func (e ReservationEvent) WithTable(id uint64, name string) ReservationEvent {
	e.TableID = &id
	e.TableName = name
	return e
}

// LogLine renders the event as a single human-friendly line.
func (e ReservationEvent) LogLine() string {
	table := "-"
	if e.TableID != nil {
		table = fmt.Sprintf("%d (%q)", *e.TableID, e.TableName)
	}
	return fmt.Sprintf("[%s] %s | reservation_id=%d | table=%s | %s -> %s | people=%d | event_id=%s\n",
		e.OccurredAt.Format(time.RFC3339), e.Type, e.ReservationID, table, e.FromStatus, e.ToStatus, e.People, e.EventID)
}
