package database_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservations/internal/config"
	"github.com/iliyamo/restaurant-reservations/internal/database"
	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
	"github.com/iliyamo/restaurant-reservations/internal/testutil"
)

func TestSeedEmbeddedFixtures(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	got, err := database.Seed(ctx, db, database.SeedFS())
	require.NoError(t, err)
	assert.Equal(t, database.SeedResult{Reservations: 5, Tables: 4}, got)

	// Seeding twice replaces the rows instead of duplicating them.
	_, err = database.Seed(ctx, db, database.SeedFS())
	require.NoError(t, err)

	store := repository.NewStore(db)
	tables, err := store.Tables().List(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 4)
	assert.Equal(t, "#1", tables[0].Name)

	list, err := store.Reservations().List(ctx, model.ReservationFilter{MobileNumber: "8085550140"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tiger", list[0].FirstName)
	assert.Equal(t, model.StatusBooked, list[0].Status)
}

func TestSeedRejectsUnknownStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	fsys := fstest.MapFS{
		"reservations.yaml": {Data: []byte("reservations:\n  - first_name: A\n    last_name: B\n    mobile_number: '1'\n    reservation_date: '2026-10-19'\n    reservation_time: '18:00'\n    people: 2\n    status: waitlisted\n")},
		"tables.yaml":       {Data: []byte("tables: []\n")},
	}
	_, err := database.Seed(context.Background(), db, fsys)
	assert.ErrorContains(t, err, "unknown status")

	list, err := repository.NewStore(db).Reservations().List(context.Background(), model.ReservationFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDSN(t *testing.T) {
	dsn := database.DSN(config.DBConfig{User: "app", Password: "pw", Host: "db", Port: "3306", Name: "reservations"})
	assert.Contains(t, dsn, "app:pw@tcp(db:3306)/reservations?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}
