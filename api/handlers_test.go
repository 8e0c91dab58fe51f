package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/workday-engine/api"
	"github.com/warp/workday-engine/calendar"
	"github.com/warp/workday-engine/store/sqlite"
	"github.com/warp/workday-engine/workday"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*api.Handler, http.Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := workday.NewEngine(calendar.NewGregorian(), nil)
	handler := api.NewHandler(store, engine, nil)
	return handler, api.NewRouter(handler)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func dto(year, month, day, hour, minute int) api.DateDTO {
	return api.DateDTO{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
}

// =============================================================================
// WINDOW ENDPOINTS
// =============================================================================

func TestWindowEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	// Unconfigured: 404.
	rec := doJSON(t, router, http.MethodGet, "/api/window", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Configure 08:00-16:00.
	rec = doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 8, 0),
		Stop:  dto(2004, 1, 1, 16, 0),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	window := decode[api.WindowDTO](t, rec)
	assert.Equal(t, 8, window.DurationHours)
	assert.Equal(t, 0, window.DurationMinutes)

	// Read back.
	rec = doJSON(t, router, http.MethodGet, "/api/window", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	window = decode[api.WindowDTO](t, rec)
	assert.Equal(t, 8, window.Start.Hour)
	assert.Equal(t, 16, window.Stop.Hour)
}

func TestSetWindow_InvalidDateRejected(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2024, -5, 20, 8, 0),
		Stop:  dto(2024, 5, 20, 16, 0),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The failed configuration left nothing behind.
	rec = doJSON(t, router, http.MethodGet, "/api/window", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetWindow_BadJSON(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/window", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// flakyWindowStore fails SaveWindow on demand, passing everything else
// through to the real store.
type flakyWindowStore struct {
	workday.Store
	fail bool
}

func (s *flakyWindowStore) SaveWindow(ctx context.Context, start, stop calendar.Date) error {
	if s.fail {
		return errors.New("save window: disk full")
	}
	return s.Store.SaveWindow(ctx, start, stop)
}

func TestSetWindow_StoreFailureLeavesEngineUntouched(t *testing.T) {
	// GIVEN: an engine configured through a healthy store
	real, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { real.Close() })
	store := &flakyWindowStore{Store: real}

	engine := workday.NewEngine(calendar.NewGregorian(), nil)
	router := api.NewRouter(api.NewHandler(store, engine, nil))

	rec := doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 8, 0),
		Stop:  dto(2004, 1, 1, 16, 0),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// WHEN: a reconfiguration fails at the store
	store.fail = true
	rec = doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 9, 0),
		Stop:  dto(2004, 1, 1, 17, 0),
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// THEN: the engine still carries the persisted window, not the
	// unpersisted one
	window, ok := engine.Window()
	require.True(t, ok)
	assert.Equal(t, 8, window.Start.Hour)
	assert.Equal(t, 16, window.Stop.Hour)
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

func TestHolidayEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	// Register one of each tier.
	rec := doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date: dto(2024, 7, 4, 0, 0),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date:      dto(2024, 12, 25, 0, 0),
		Recurring: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// List shows both, recurring flagged.
	rec = doJSON(t, router, http.MethodGet, "/api/holidays", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[api.HolidayListDTO](t, rec)
	require.Len(t, list.Holidays, 2)
	assert.False(t, list.Holidays[0].Recurring)
	assert.Equal(t, 7, list.Holidays[0].Date.Month)
	assert.True(t, list.Holidays[1].Recurring)
	assert.Equal(t, 12, list.Holidays[1].Date.Month)

	// Classification: registered date, recurring in another year, weekend,
	// plain weekday.
	for _, tc := range []struct {
		query string
		want  bool
	}{
		{"year=2024&month=7&day=4", true},
		{"year=2030&month=12&day=25", true},
		{"year=2024&month=5&day=11", true},
		{"year=2024&month=5&day=21", false},
	} {
		rec = doJSON(t, router, http.MethodGet, "/api/holidays/check?"+tc.query, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		check := decode[api.HolidayCheckDTO](t, rec)
		assert.Equal(t, tc.want, check.Holiday, tc.query)
	}
}

func TestCreateHoliday_InvalidDateRejected(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date: dto(2024, 2, 30, 0, 0),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckHoliday_BadQuery(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/holidays/check?year=2024&month=x&day=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/holidays/check?year=2024&month=2&day=30", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// INCREMENT ENDPOINT
// =============================================================================

func TestIncrement(t *testing.T) {
	_, router := newTestServer(t)

	// Unconfigured window: well-formed request, not computable.
	rec := doJSON(t, router, http.MethodPost, "/api/increment", api.IncrementRequest{
		Start:  dto(2004, 1, 1, 15, 7),
		Amount: 0.25,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Configure and retry.
	rec = doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 8, 0),
		Stop:  dto(2004, 1, 1, 16, 0),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/increment", api.IncrementRequest{
		Start:  dto(2004, 1, 1, 15, 7),
		Amount: 0.25,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[api.IncrementDTO](t, rec)
	assert.Equal(t, "2004-01-02 09:07", result.Formatted)
	assert.Equal(t, dto(2004, 1, 2, 9, 7), result.Result)
}

func TestIncrement_RespectsRegisteredHolidays(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 8, 0),
		Stop:  dto(2004, 1, 1, 16, 0),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date: dto(2024, 7, 4, 0, 0),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/increment", api.IncrementRequest{
		Start:  dto(2024, 7, 3, 9, 0),
		Amount: 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[api.IncrementDTO](t, rec)
	assert.Equal(t, "2024-07-05 09:00", result.Formatted, "july 4th is skipped")
}

func TestIncrement_InvalidStart(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 8, 0),
		Stop:  dto(2004, 1, 1, 16, 0),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/increment", api.IncrementRequest{
		Start:  dto(2024, 13, 1, 9, 0),
		Amount: 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	errResp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "increment_failed", errResp.Code)
}

// =============================================================================
// PERSISTENCE ACROSS RESTARTS
// =============================================================================

func TestLoadCalendar_RehydratesEngine(t *testing.T) {
	// GIVEN: a store populated through one handler instance
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	first := api.NewHandler(store, workday.NewEngine(calendar.NewGregorian(), nil), nil)
	router := api.NewRouter(first)

	rec := doJSON(t, router, http.MethodPut, "/api/window", api.SetWindowRequest{
		Start: dto(2004, 1, 1, 8, 0),
		Stop:  dto(2004, 1, 1, 16, 0),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date: dto(2024, 7, 4, 0, 0),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date:      dto(2024, 12, 25, 0, 0),
		Recurring: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// WHEN: a fresh engine re-hydrates from the same store (a restart)
	second := api.NewHandler(store, workday.NewEngine(calendar.NewGregorian(), nil), nil)
	require.NoError(t, second.LoadCalendar(context.Background()))

	// THEN: window and both holiday tiers are back
	result := second.Engine.GetWorkdayIncrement(calendar.NewDate(2024, 7, 3, 9, 0), 1)
	assert.Equal(t, "2024-07-05 09:00", result.String())
	assert.True(t, second.Engine.IsHoliday(calendar.NewDate(2031, 12, 25, 0, 0)))
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
