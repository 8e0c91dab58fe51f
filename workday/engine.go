/*
Package workday implements fractional-workday date arithmetic over a
configurable daily window and a holiday-aware calendar.

PURPOSE:
  Answers questions like "what date and time is 3.5 workdays from now?"
  where a workday is bounded by configured start/stop clock times and
  weekends and registered holidays are skipped entirely. This is the SLA
  and deadline math layer the rest of the system builds on.

KEY CONCEPTS IN THIS FILE (engine.go):
  - Window: the optional start/stop/duration aggregate, all-present or
    all-absent, never half-set
  - Engine: owns a calendar.Rules instance and the window, and runs the
    increment algorithm
  - Sentinel failure: every date-producing operation returns
    calendar.Invalid() on failure and logs a diagnostic; nothing is
    raised across the public boundary

ALGORITHM (GetWorkdayIncrement):
  1. Convert the fractional workday count to whole minutes using the
     configured daily duration (decimal-exact, truncated)
  2. Decompose into whole work-weeks, whole workdays, and a minute
     remainder
  3. Align a start that falls mid-holiday onto a workday boundary
  4. Step whole weeks and days, skipping holidays after every step
  5. Apply the minute remainder with boundary-aware snap/rollover

CONCURRENCY:
  One RWMutex guards the window and the holiday sets. Mutators take the
  write lock; IsHoliday, the accessors and GetWorkdayIncrement take the
  read lock, so increments are serialized against configuration changes.

SEE ALSO:
  - calendar/gregorian.go: date validity, holiday sets, day stepping
  - calendar/clock.go: the minute arithmetic used for the remainder
  - store.go: persistence interface for calendar state
*/
package workday

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/workday-engine/calendar"
)

// workweekDays is the fixed length of a work-week. The design assumes a
// Monday-Friday week with a Saturday/Sunday weekend.
const workweekDays = 5

// =============================================================================
// WINDOW - Daily working hours configuration
// =============================================================================

// Window is the configured daily working window. Only the clock
// components of Start and Stop are semantically meaningful; the date
// portions exist because the same Date type carries them. Duration is
// always re-derived when Start and Stop are set, wrapped into 24h when
// Stop is earlier than Start.
type Window struct {
	Start    calendar.Date
	Stop     calendar.Date
	Duration calendar.Date
}

// durationMinutes returns the window length in minutes.
func (w Window) durationMinutes() int {
	return calendar.ToMinutes(w.Duration.Clock())
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine owns a calendar and an optional working window and computes
// fractional workday increments. Safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	rules  calendar.Rules
	window *Window
	log    *zap.Logger
}

// NewEngine creates an engine over the given calendar rules. The window
// starts absent; increments fail cleanly until SetWorkdayStartAndStop
// succeeds. A nil logger is replaced with a no-op logger.
func NewEngine(rules calendar.Rules, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{rules: rules, log: log}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetWorkdayStartAndStop configures the daily working window. Both inputs
// are validated; if either is invalid the window is cleared to absent so
// no partial configuration is ever retained. On success the duration is
// re-derived as stop minus start, wrapped into 24h.
func (e *Engine) SetWorkdayStartAndStop(start, stop calendar.Date) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rules.IsValidDate(start) {
		e.log.Info("invalid workday start, clearing window", zap.String("start", start.String()))
		e.window = nil
		return
	}
	if !e.rules.IsValidDate(stop) {
		e.log.Info("invalid workday stop, clearing window", zap.String("stop", stop.String()))
		e.window = nil
		return
	}

	durHour, durMinute := calendar.SubtractClock(stop.Hour, stop.Minute, start.Hour, start.Minute)
	e.window = &Window{
		Start:    start,
		Stop:     stop,
		Duration: calendar.NewDate(0, 0, 0, durHour, durMinute),
	}
}

// SetHoliday registers a one-time holiday on the calendar.
func (e *Engine) SetHoliday(d calendar.Date) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules.SetHoliday(d)
}

// SetRecurringHoliday registers a holiday recurring every year on the
// calendar.
func (e *Engine) SetRecurringHoliday(d calendar.Date) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules.SetRecurringHoliday(d)
}

// IsHoliday reports whether d is a weekend day or a registered holiday.
func (e *Engine) IsHoliday(d calendar.Date) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules.IsHoliday(d)
}

// IsValidDate reports whether d is valid on the engine's calendar.
func (e *Engine) IsValidDate(d calendar.Date) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules.IsValidDate(d)
}

// WorkdayStart returns the configured daily start time, if set.
func (e *Engine) WorkdayStart() (calendar.Date, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.window == nil {
		return calendar.Date{}, false
	}
	return e.window.Start, true
}

// WorkdayStop returns the configured daily stop time, if set.
func (e *Engine) WorkdayStop() (calendar.Date, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.window == nil {
		return calendar.Date{}, false
	}
	return e.window.Stop, true
}

// Window returns a copy of the configured window, if set.
func (e *Engine) Window() (Window, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.window == nil {
		return Window{}, false
	}
	return *e.window, true
}

// =============================================================================
// INCREMENT ALGORITHM
// =============================================================================

// GetWorkdayIncrement returns the date reached by advancing (amount > 0)
// or receding (amount < 0) startDate by a fractional number of workdays.
// It returns the invalid sentinel, never an error, when startDate is
// invalid, the window is unconfigured or empty, or the computation fails
// internally; the reason is logged as a side channel.
//
// A zero amount is not a pure identity: a start that is mid-holiday or
// outside working hours is still normalized onto the nearest workday
// slot. Starting exactly at the stop boundary counts as past stop.
func (e *Engine) GetWorkdayIncrement(startDate calendar.Date, amount float64) (result calendar.Date) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	// All failure is expressed as the sentinel. A panic inside the
	// computation must not cross the public boundary.
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("workday increment failed",
				zap.String("start", startDate.String()),
				zap.Float64("amount", amount),
				zap.Any("panic", r))
			result = calendar.Invalid()
		}
	}()

	if !e.rules.IsValidDate(startDate) {
		e.log.Info("invalid start date", zap.String("start", startDate.String()))
		return calendar.Invalid()
	}
	if e.window == nil {
		e.log.Info("workday window not configured")
		return calendar.Invalid()
	}

	durationMinutes := int64(e.window.durationMinutes())
	if durationMinutes == 0 {
		e.log.Info("workday window has zero duration")
		return calendar.Invalid()
	}

	decrement := amount < 0
	if decrement {
		amount = -amount
	}

	// Exact conversion of the fractional workday count into minutes,
	// truncated toward zero.
	totalMinutes := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromInt(durationMinutes)).
		IntPart()

	// The minutes -> workdays -> weeks route is deliberate: the minute
	// remainder extracted below is what drives the sub-day boundary
	// snapping, so the decomposition must operate on minutes.
	workDays := int(totalMinutes / durationMinutes)
	workWeeks := workDays / workweekDays

	current := startDate

	// A start that falls mid-holiday is first walked onto a workday
	// boundary: start of day when incrementing, end of day when
	// decrementing.
	for e.rules.IsHoliday(current) {
		if decrement {
			current = e.rules.RemoveDay(current)
			current = current.WithClock(e.window.Stop.Clock())
		} else {
			current = e.rules.AddDay(current)
			current = current.WithClock(e.window.Start.Clock())
		}
	}

	for week := 0; week < workWeeks; week++ {
		current = e.stepWorkWeek(current, decrement)
	}

	for day := 0; day < workDays%workweekDays; day++ {
		current = e.stepWorkday(current, decrement)
	}

	remaining := int(totalMinutes % durationMinutes)
	if decrement {
		current = e.removeRemainingMinutes(remaining, current)
	} else {
		current = e.addRemainingMinutes(remaining, current)
	}
	return current
}

// stepWorkWeek moves current by one whole work-week: five holiday-skipping
// day steps, so a week always lands on five genuine workdays.
func (e *Engine) stepWorkWeek(current calendar.Date, decrement bool) calendar.Date {
	for i := 0; i < workweekDays; i++ {
		current = e.stepWorkday(current, decrement)
	}
	return current
}

// stepWorkday moves current by one calendar day in the given direction,
// then keeps stepping until it lands on a non-holiday date. The clock
// components are untouched.
func (e *Engine) stepWorkday(current calendar.Date, decrement bool) calendar.Date {
	current = e.stepDay(current, decrement)
	for e.rules.IsHoliday(current) {
		current = e.stepDay(current, decrement)
	}
	return current
}

func (e *Engine) stepDay(current calendar.Date, decrement bool) calendar.Date {
	if decrement {
		return e.rules.RemoveDay(current)
	}
	return e.rules.AddDay(current)
}

// addRemainingMinutes applies the sub-day remainder in the increment
// direction. A current time at or past stop rolls to the next workday's
// start; a time before start snaps forward to start. Overflow past stop
// rolls the excess into the next workday from its start time.
func (e *Engine) addRemainingMinutes(minutes int, current calendar.Date) calendar.Date {
	stopMinutes := calendar.ToMinutes(e.window.Stop.Clock())
	startMinutes := calendar.ToMinutes(e.window.Start.Clock())
	currentMinutes := calendar.ToMinutes(current.Clock())

	switch {
	case currentMinutes >= stopMinutes:
		current = e.stepWorkday(current, false)
		current = current.WithClock(e.window.Start.Clock())
		currentMinutes = startMinutes
	case currentMinutes < startMinutes:
		current = current.WithClock(e.window.Start.Clock())
		currentMinutes = startMinutes
	}

	if currentMinutes+minutes <= stopMinutes {
		return current.WithClock(calendar.AddMinutes(currentMinutes, minutes))
	}

	current = e.stepWorkday(current, false)
	overflow := currentMinutes + minutes - stopMinutes
	return current.WithClock(calendar.AddMinutes(startMinutes, overflow))
}

// removeRemainingMinutes is the decrement mirror: a current time at or
// past stop snaps back to stop; a time before start rolls to the previous
// workday's stop. Underflow below start rolls into the previous workday
// ending at stop minus the shortfall.
func (e *Engine) removeRemainingMinutes(minutes int, current calendar.Date) calendar.Date {
	stopMinutes := calendar.ToMinutes(e.window.Stop.Clock())
	startMinutes := calendar.ToMinutes(e.window.Start.Clock())
	currentMinutes := calendar.ToMinutes(current.Clock())

	switch {
	case currentMinutes >= stopMinutes:
		current = current.WithClock(e.window.Stop.Clock())
		currentMinutes = stopMinutes
	case currentMinutes < startMinutes:
		current = e.stepWorkday(current, true)
		current = current.WithClock(e.window.Stop.Clock())
		currentMinutes = stopMinutes
	}

	if currentMinutes-minutes >= startMinutes {
		return current.WithClock(calendar.SubtractMinutes(currentMinutes, minutes))
	}

	current = e.stepWorkday(current, true)
	underflow := startMinutes - (currentMinutes - minutes)
	return current.WithClock(calendar.SubtractMinutes(stopMinutes, underflow))
}
