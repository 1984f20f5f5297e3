package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/metrics"
	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/queue"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
	"github.com/iliyamo/restaurant-reservations/internal/testutil"
	"github.com/iliyamo/restaurant-reservations/internal/validation"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store        *repository.Store
	clock        *testutil.Clock
	publisher    *recordingPublisher
	reservations *ReservationService
	tables       *TableService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	return newFixtureWithGateway(t, store, store)
}

func newFixtureWithGateway(t *testing.T, store *repository.Store, gw repository.Gateway) *fixture {
	t.Helper()
	clock := testutil.NewClock()
	pub := &recordingPublisher{}
	deps := Deps{
		Gateway:   gw,
		Validator: validation.New(model.DefaultPolicy(), clock.Now),
		Publisher: pub,
		Metrics:   metrics.NewWorkflowMetrics(prometheus.NewRegistry()),
		Now:       clock.Now,
	}
	return &fixture{
		store:        store,
		clock:        clock,
		publisher:    pub,
		reservations: NewReservationService(deps),
		tables:       NewTableService(deps),
	}
}

func intPtr(n int) *int { return &n }

func (f *fixture) input(people int) model.ReservationInput {
	return model.ReservationInput{
		FirstName:       "Al",
		LastName:        "Lee",
		MobileNumber:    "800-555-0100",
		ReservationDate: f.clock.Tomorrow(),
		ReservationTime: "18:00",
		People:          intPtr(people),
	}
}

func (f *fixture) reservation(t *testing.T, people int) *model.Reservation {
	t.Helper()
	res, err := f.reservations.Create(context.Background(), f.input(people))
	require.NoError(t, err)
	return res
}

func (f *fixture) table(t *testing.T, name string, capacity int) *model.Table {
	t.Helper()
	tbl, err := f.tables.Create(context.Background(), model.TableInput{TableName: name, Capacity: intPtr(capacity)})
	require.NoError(t, err)
	return tbl
}

func seatInput(id uint64) model.SeatInput { return model.SeatInput{ReservationID: &id} }

func requireCode(t *testing.T, err error, code apperr.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok, "expected apperr.Error, got %T: %v", err, err)
	assert.Equal(t, code, e.Code())
	if msg != "" {
		assert.Equal(t, msg, e.Message())
	}
}

// failingGateway injects an error into selected writes made inside a
// transaction.
type failingGateway struct {
	repository.Gateway
	failReservationStatus error
	failRelease           error
}

func (g *failingGateway) InTx(ctx context.Context, fn func(tx repository.Gateway) error) error {
	return g.Gateway.InTx(ctx, func(tx repository.Gateway) error {
		return fn(&failingGateway{Gateway: tx, failReservationStatus: g.failReservationStatus, failRelease: g.failRelease})
	})
}

func (g *failingGateway) Reservations() repository.ReservationStore {
	return &failingReservations{ReservationStore: g.Gateway.Reservations(), err: g.failReservationStatus}
}

func (g *failingGateway) Tables() repository.TableStore {
	return &failingTables{TableStore: g.Gateway.Tables(), err: g.failRelease}
}

type failingReservations struct {
	repository.ReservationStore
	err error
}

func (r *failingReservations) UpdateStatus(ctx context.Context, id uint64, from, to model.Status) error {
	if r.err != nil {
		return r.err
	}
	return r.ReservationStore.UpdateStatus(ctx, id, from, to)
}

type failingTables struct {
	repository.TableStore
	err error
}

func (t *failingTables) Release(ctx context.Context, tableID, reservationID uint64) error {
	if t.err != nil {
		return t.err
	}
	return t.TableStore.Release(ctx, tableID, reservationID)
}

// staleGateway reports every table as free inside a transaction, as a
// read taken before a competing seat committed would.
type staleGateway struct {
	repository.Gateway
}

func (g *staleGateway) InTx(ctx context.Context, fn func(tx repository.Gateway) error) error {
	return g.Gateway.InTx(ctx, func(tx repository.Gateway) error {
		return fn(&staleGateway{Gateway: tx})
	})
}

func (g *staleGateway) Tables() repository.TableStore {
	return &staleTables{TableStore: g.Gateway.Tables()}
}

type staleTables struct {
	repository.TableStore
}

func (t *staleTables) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	tbl, err := t.TableStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tbl.ReservationID = nil
	return tbl, nil
}

var errDisk = errors.New("disk full")
