package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/restaurant-reservations/internal/config"
	"github.com/iliyamo/restaurant-reservations/internal/handler"
	"github.com/iliyamo/restaurant-reservations/internal/metrics"
	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/router"
	"github.com/iliyamo/restaurant-reservations/internal/service"
	"github.com/iliyamo/restaurant-reservations/internal/testutil"
	"github.com/iliyamo/restaurant-reservations/internal/utils"
	"github.com/iliyamo/restaurant-reservations/internal/validation"
)

type app struct {
	e     *echo.Echo
	clock *testutil.Clock
	token string
}

func newApp(t *testing.T, auth config.AuthConfig) *app {
	t.Helper()
	store := testutil.NewStore(t)
	clock := testutil.NewClock()
	reg := prometheus.NewRegistry()
	deps := service.Deps{
		Gateway:   store,
		Validator: validation.New(model.DefaultPolicy(), clock.Now),
		Metrics:   metrics.NewWorkflowMetrics(reg),
		Now:       clock.Now,
	}
	h := router.Handlers{
		Reservations: handler.NewReservationHandler(service.NewReservationService(deps)),
		Tables:       handler.NewTableHandler(service.NewTableService(deps)),
		Auth:         handler.NewAuthHandler(auth, nil),
	}
	e := router.New(h, router.Options{
		Auth:     auth,
		Metrics:  metrics.NewHTTPMetrics(reg),
		Gatherer: reg,
		DB:       store.DB(),
	})
	return &app{e: e, clock: clock}
}

type reply struct {
	code int
	raw  string
	body map[string]json.RawMessage
}

func (r reply) errorMessage(t *testing.T) string {
	t.Helper()
	var msg string
	require.Contains(t, r.body, "error", r.raw)
	require.NoError(t, json.Unmarshal(r.body["error"], &msg))
	return msg
}

func (r reply) data(t *testing.T, v any) {
	t.Helper()
	require.Contains(t, r.body, "data", r.raw)
	require.NoError(t, json.Unmarshal(r.body["data"], v))
}

func (a *app) do(t *testing.T, method, target, body string) reply {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if a.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	r := reply{code: rec.Code, raw: rec.Body.String()}
	_ = json.Unmarshal(rec.Body.Bytes(), &r.body)
	return r
}

func (a *app) reservationBody(people string) string {
	return `{"data":{"first_name":"Rick","last_name":"Sanchez","mobile_number":"202-555-0164",` +
		`"reservation_date":"` + a.clock.Tomorrow() + `","reservation_time":"18:00","people":` + people + `}}`
}

func TestWorkedExample(t *testing.T) {
	a := newApp(t, config.AuthConfig{})

	r := a.do(t, http.MethodPost, "/tables", `{"data":{"table_name":"T1","capacity":4}}`)
	require.Equal(t, http.StatusCreated, r.code, r.raw)
	var table model.Table
	r.data(t, &table)
	tableID := strconv.FormatUint(table.ID, 10)

	r = a.do(t, http.MethodPost, "/reservations", a.reservationBody("4"))
	require.Equal(t, http.StatusCreated, r.code, r.raw)
	var res model.Reservation
	r.data(t, &res)
	assert.Equal(t, model.StatusBooked, res.Status)
	resID := strconv.FormatUint(res.ID, 10)

	r = a.do(t, http.MethodPut, "/tables/"+tableID+"/seat", `{"data":{"reservation_id":`+resID+`}}`)
	require.Equal(t, http.StatusOK, r.code, r.raw)
	var seating model.Seating
	r.data(t, &seating)
	assert.Equal(t, model.StatusSeated, seating.Status)
	require.NotNil(t, seating.Table.ReservationID)
	assert.Equal(t, res.ID, *seating.Table.ReservationID)

	r = a.do(t, http.MethodGet, "/reservations/"+resID, "")
	require.Equal(t, http.StatusOK, r.code)
	r.data(t, &res)
	assert.Equal(t, model.StatusSeated, res.Status)

	r = a.do(t, http.MethodDelete, "/tables/"+tableID+"/seat", "")
	require.Equal(t, http.StatusOK, r.code, r.raw)

	r = a.do(t, http.MethodGet, "/tables", "")
	require.Equal(t, http.StatusOK, r.code)
	var tables []model.Table
	r.data(t, &tables)
	require.Len(t, tables, 1)
	assert.Nil(t, tables[0].ReservationID)

	r = a.do(t, http.MethodGet, "/reservations/"+resID, "")
	r.data(t, &res)
	assert.Equal(t, model.StatusFinished, res.Status)

	r = a.do(t, http.MethodPut, "/reservations/"+resID+"/status", `{"data":{"status":"cancelled"}}`)
	assert.Equal(t, http.StatusBadRequest, r.code)
	assert.Equal(t, "A finished reservation cannot be updated.", r.errorMessage(t))

	// Finished reservations drop out of the day's list.
	r = a.do(t, http.MethodGet, "/reservations?date="+a.clock.Tomorrow(), "")
	require.Equal(t, http.StatusOK, r.code)
	var list []model.Reservation
	r.data(t, &list)
	assert.Empty(t, list)

	r = a.do(t, http.MethodGet, "/reservations?mobile_number=555-0164", "")
	r.data(t, &list)
	assert.Len(t, list, 1)
}

func TestErrorResponses(t *testing.T) {
	a := newApp(t, config.AuthConfig{})

	cases := []struct {
		name, method, target, body string
		code                       int
		msg                        string
	}{
		{"bad reservation id", http.MethodGet, "/reservations/abc", "", http.StatusNotFound, "Reservation with ID abc not found."},
		{"zero reservation id", http.MethodPost, "/reservations/0/seat", "", http.StatusNotFound, "Reservation with ID 0 not found."},
		{"missing reservation", http.MethodGet, "/reservations/99", "", http.StatusNotFound, "Reservation with ID 99 not found."},
		{"bad table id", http.MethodDelete, "/tables/x/seat", "", http.StatusNotFound, "Table with ID x not found."},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound, "Path not found: /nope"},
		{"wrong method", http.MethodPatch, "/healthz", "", http.StatusMethodNotAllowed, "PATCH not allowed for /healthz"},
		{"bad date filter", http.MethodGet, "/reservations?date=soon", "", http.StatusBadRequest, "'date' must be a valid date (YYYY-MM-DD)."},
		{"people as string", http.MethodPost, "/reservations", a.reservationBody(`"4"`), http.StatusBadRequest, "'people' must be a number greater than 0."},
		{"people zero", http.MethodPost, "/reservations", a.reservationBody("0"), http.StatusBadRequest, "'people' must be a number greater than 0."},
		{"malformed json", http.MethodPost, "/tables", `{"data":`, http.StatusBadRequest, "Request body must be valid JSON."},
		{"missing body", http.MethodPost, "/tables", "", http.StatusBadRequest, "Field 'table_name' is missing."},
		{"seat without reservation", http.MethodPut, "/tables/1/seat", `{"data":{}}`, http.StatusBadRequest, "reservation_id is required."},
		{"status of missing reservation", http.MethodPut, "/reservations/1/status", `{"data":{"status":"late"}}`, http.StatusNotFound, "Reservation with ID 1 not found."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := a.do(t, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.code, r.code, r.raw)
			assert.Equal(t, tc.msg, r.errorMessage(t))
		})
	}
}

func TestConflictsAreBadRequests(t *testing.T) {
	a := newApp(t, config.AuthConfig{})
	r := a.do(t, http.MethodPost, "/reservations", a.reservationBody("2"))
	require.Equal(t, http.StatusCreated, r.code, r.raw)
	var res model.Reservation
	r.data(t, &res)
	id := strconv.FormatUint(res.ID, 10)

	r = a.do(t, http.MethodPost, "/reservations/"+id+"/seat", "")
	require.Equal(t, http.StatusOK, r.code, r.raw)

	r = a.do(t, http.MethodPost, "/reservations/"+id+"/seat", "")
	assert.Equal(t, http.StatusBadRequest, r.code)
	assert.Equal(t, "Reservation is already seated.", r.errorMessage(t))
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t, config.AuthConfig{})
	r := a.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "ok", r.raw)

	a.do(t, http.MethodGet, "/tables", "")
	r = a.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, r.code)
	assert.Contains(t, r.raw, `http_requests_total{method="GET",route="/tables",status="200"} 1`)
}

func TestStaffLogin(t *testing.T) {
	hash, err := utils.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	auth := config.AuthConfig{
		Enabled:           true,
		JWTSecret:         "s3cret",
		AccessTTLMin:      60,
		StaffUsername:     "host",
		StaffPasswordHash: hash,
	}
	a := newApp(t, auth)

	r := a.do(t, http.MethodGet, "/tables", "")
	assert.Equal(t, http.StatusUnauthorized, r.code)

	r = a.do(t, http.MethodPost, "/auth/login", `{"data":{"username":"host","password":"nope"}}`)
	assert.Equal(t, http.StatusUnauthorized, r.code)
	assert.Equal(t, "invalid credentials", r.errorMessage(t))

	r = a.do(t, http.MethodPost, "/auth/login", `{"data":{"username":"host"}}`)
	assert.Equal(t, http.StatusBadRequest, r.code)

	r = a.do(t, http.MethodPost, "/auth/login", `{"data":{"username":"host","password":"hunter2"}}`)
	require.Equal(t, http.StatusOK, r.code, r.raw)
	var tok utils.AccessToken
	r.data(t, &tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, time.Minute)

	a.token = tok.Token
	r = a.do(t, http.MethodGet, "/tables", "")
	assert.Equal(t, http.StatusOK, r.code, r.raw)
}
