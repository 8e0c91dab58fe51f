/*
handlers.go - HTTP API handlers for the workday engine

PURPOSE:
  Exposes the workday engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to the engine; calendar mutations are
  persisted to the store before being applied.

ENDPOINTS:
  Window:
    GET    /api/window          Current working window
    PUT    /api/window          Configure working window

  Holidays:
    GET    /api/holidays        List registered holidays (both tiers)
    POST   /api/holidays        Register a one-time or recurring holiday
    GET    /api/holidays/check  Holiday classification for a date

  Increment:
    POST   /api/increment       Compute a fractional workday increment

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body or invalid date components
  - 422: The engine returned the invalid sentinel (unconfigured window)
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - workday/engine.go: The domain logic being exposed
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/warp/workday-engine/calendar"
	"github.com/warp/workday-engine/workday"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  workday.Store
	Engine *workday.Engine
	Log    *zap.Logger
}

// NewHandler creates a new handler. A nil logger is replaced with a
// no-op logger.
func NewHandler(store workday.Store, engine *workday.Engine, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Store: store, Engine: engine, Log: log}
}

// LoadCalendar re-hydrates the engine from persisted state: the working
// window and both holiday tiers. Called once at startup.
func (h *Handler) LoadCalendar(ctx context.Context) error {
	start, stop, ok, err := h.Store.LoadWindow(ctx)
	if err != nil {
		return fmt.Errorf("failed to load window: %w", err)
	}
	if ok {
		h.Engine.SetWorkdayStartAndStop(start, stop)
	}

	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}
	for _, d := range holidays {
		h.Engine.SetHoliday(d)
	}

	recurring, err := h.Store.ListRecurringHolidays(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recurring holidays: %w", err)
	}
	for _, d := range recurring {
		h.Engine.SetRecurringHoliday(d)
	}

	h.Log.Info("calendar loaded",
		zap.Bool("window_configured", ok),
		zap.Int("holidays", len(holidays)),
		zap.Int("recurring_holidays", len(recurring)))
	return nil
}

// =============================================================================
// WINDOW HANDLERS
// =============================================================================

// GetWindow returns the configured working window, or 404 when absent.
func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	window, ok := h.Engine.Window()
	if !ok {
		writeError(w, http.StatusNotFound, "working window is not configured", "unconfigured")
		return
	}
	writeJSON(w, http.StatusOK, toWindowDTO(window))
}

// SetWindow configures the working window. Invalid start or stop clears
// the window and is reported as 400, matching the engine's all-or-nothing
// configuration contract. Valid input is persisted before it is applied,
// so a store failure leaves the engine on its previous window.
func (h *Handler) SetWindow(w http.ResponseWriter, r *http.Request) {
	var req SetWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_json")
		return
	}

	start, stop := req.Start.toDate(), req.Stop.toDate()
	if !h.Engine.IsValidDate(start) || !h.Engine.IsValidDate(stop) {
		h.Engine.SetWorkdayStartAndStop(start, stop)
		writeError(w, http.StatusBadRequest, "invalid start or stop date, window cleared", "invalid_window")
		return
	}

	if err := h.Store.SaveWindow(r.Context(), start, stop); err != nil {
		h.Log.Error("failed to persist window", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist window", "store_error")
		return
	}

	h.Engine.SetWorkdayStartAndStop(start, stop)
	window, _ := h.Engine.Window()
	writeJSON(w, http.StatusOK, toWindowDTO(window))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns both holiday tiers from the store.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	oneTime, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		h.Log.Error("failed to list holidays", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list holidays", "store_error")
		return
	}
	recurring, err := h.Store.ListRecurringHolidays(r.Context())
	if err != nil {
		h.Log.Error("failed to list recurring holidays", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list holidays", "store_error")
		return
	}

	resp := HolidayListDTO{Holidays: make([]HolidayDTO, 0, len(oneTime)+len(recurring))}
	for _, d := range oneTime {
		resp.Holidays = append(resp.Holidays, HolidayDTO{Date: fromDate(d), Recurring: false})
	}
	for _, d := range recurring {
		resp.Holidays = append(resp.Holidays, HolidayDTO{Date: fromDate(d), Recurring: true})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateHoliday registers a one-time or recurring holiday. The engine
// silently ignores invalid dates, so validation happens here to give the
// client a real answer.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_json")
		return
	}

	date := req.Date.toDate()
	if !h.Engine.IsValidDate(date) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %s", date), "invalid_date")
		return
	}

	var err error
	if req.Recurring {
		err = h.Store.SaveRecurringHoliday(r.Context(), date)
	} else {
		err = h.Store.SaveHoliday(r.Context(), date)
	}
	if err != nil {
		h.Log.Error("failed to persist holiday", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist holiday", "store_error")
		return
	}

	if req.Recurring {
		h.Engine.SetRecurringHoliday(date)
	} else {
		h.Engine.SetHoliday(date)
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{Date: fromDate(date), Recurring: req.Recurring})
}

// CheckHoliday classifies a single date given as year/month/day query
// parameters.
func (h *Handler) CheckHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := dateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_query")
		return
	}
	if !h.Engine.IsValidDate(date) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %s", date), "invalid_date")
		return
	}
	writeJSON(w, http.StatusOK, HolidayCheckDTO{
		Date:    fromDate(date),
		Holiday: h.Engine.IsHoliday(date),
	})
}

// =============================================================================
// INCREMENT HANDLER
// =============================================================================

// Increment computes the fractional workday increment. The engine
// expresses every failure as the invalid sentinel; that maps to 422 here
// since the request was well-formed but not computable.
func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	var req IncrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_json")
		return
	}

	start := req.Start.toDate()
	result := h.Engine.GetWorkdayIncrement(start, req.Amount)
	if result.IsInvalid() {
		writeError(w, http.StatusUnprocessableEntity,
			"increment failed: invalid start date or unconfigured window", "increment_failed")
		return
	}

	writeJSON(w, http.StatusOK, IncrementDTO{
		Start:     req.Start,
		Amount:    req.Amount,
		Result:    fromDate(result),
		Formatted: result.String(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func dateFromQuery(r *http.Request) (calendar.Date, error) {
	q := r.URL.Query()
	parts := [3]int{}
	for i, name := range []string{"year", "month", "day"} {
		v, err := strconv.Atoi(q.Get(name))
		if err != nil {
			return calendar.Date{}, fmt.Errorf("missing or non-numeric %q parameter", name)
		}
		parts[i] = v
	}
	return calendar.NewDate(parts[0], parts[1], parts[2], 0, 0), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
