package model

import "time"

// Table is a physical table in the dining room. ReservationID points at
// the reservation currently seated there and is nil when the table is free.
//
// Fields:
//
//	ID            – primary key identifier.
//	Name          – display name, at least two characters.
//	Capacity      – number of guests the table seats.
//	ReservationID – occupying reservation (nullable).
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Table struct {
	ID            uint64    `json:"table_id"`       // tables.table_id
	Name          string    `json:"table_name"`     // tables.table_name
	Capacity      int       `json:"capacity"`       // tables.capacity
	ReservationID *uint64   `json:"reservation_id"` // tables.reservation_id (nullable)
	CreatedAt     time.Time `json:"created_at"`     // tables.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // tables.updated_at
}

func (t Table) Occupied() bool { return t.ReservationID != nil }

// TableInput is the client supplied body for table creation.
type TableInput struct {
	TableName string `json:"table_name" validate:"required,min=2"`
	Capacity  *int   `json:"capacity" validate:"required,min=1"`
}

// SeatInput is the body of a seat request.
type SeatInput struct {
	ReservationID *uint64 `json:"reservation_id"`
}

// Seating is the result of seating a reservation at a table or freeing
// the table afterwards.
type Seating struct {
	Status      Status       `json:"status"`
	Table       *Table       `json:"table"`
	Reservation *Reservation `json:"reservation"`
}
