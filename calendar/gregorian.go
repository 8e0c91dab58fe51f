/*
gregorian.go - Calendar rules capability and Gregorian implementation

PURPOSE:
  Defines the Rules interface the workday engine depends on, and the one
  concrete variant: the Gregorian calendar. Rules owns date validation,
  holiday classification, and single-day stepping with month/year
  rollover. A future Julian (or other) calendar is a second variant
  behind the same interface, selected at engine construction.

HOLIDAY MODEL:
  Two tiers, because real holiday calendars mix both:
  - One-time holidays: a specific Y-M-D (e.g. a one-off closure)
  - Recurring holidays: a (month, day) pair matching every year (e.g. a
    fixed national holiday)
  Registration silently ignores invalid dates. This is documented
  leniency, not an error path.

WEEKEND QUIRK:
  IsHoliday tests Saturday/Sunday via DayOfWeek without validating the
  date first. Callers validate separately (the engine always does).

SEE ALSO:
  - date.go: the Date value type
  - workday/engine.go: the consumer of Rules
*/
package calendar

// =============================================================================
// RULES - Calendar capability interface
// =============================================================================

// Rules classifies dates as valid/invalid and holiday/non-holiday and
// moves a date by exactly one calendar day. Implementations own their
// holiday sets; no entity is shared across instances.
type Rules interface {
	// IsValidDate reports whether every component of d is in range for
	// this calendar. It never panics; any violation yields false.
	IsValidDate(d Date) bool

	// SetHoliday registers a one-time holiday, keyed by the full Y-M-D.
	// The time of day is ignored. Invalid dates are silently ignored.
	SetHoliday(d Date)

	// SetRecurringHoliday registers a (month, day) holiday matching
	// every year. Invalid dates are silently ignored.
	SetRecurringHoliday(d Date)

	// IsHoliday reports whether d falls on a weekend, a registered
	// one-time holiday, or a registered recurring holiday. The weekend
	// check runs first and does not validate d.
	IsHoliday(d Date) bool

	// AddDay returns d advanced by one calendar day, handling month and
	// year rollover. The clock components are untouched.
	AddDay(d Date) Date

	// RemoveDay returns d retreated by one calendar day, handling month
	// and year rollover. The clock components are untouched.
	RemoveDay(d Date) Date
}

// =============================================================================
// GREGORIAN - The concrete calendar
// =============================================================================

type monthDay struct {
	Month int
	Day   int
}

// Gregorian implements Rules for the Gregorian calendar. It is not safe
// for concurrent use on its own; the workday engine serializes access.
type Gregorian struct {
	holidays  map[string]struct{}
	recurring map[monthDay]struct{}
}

// NewGregorian returns a Gregorian calendar with empty holiday sets.
func NewGregorian() *Gregorian {
	return &Gregorian{
		holidays:  make(map[string]struct{}),
		recurring: make(map[monthDay]struct{}),
	}
}

// IsValidDate checks year >= 0, month and day against the month's day
// count (leap years included), hour in [0,24) and minute in [0,60).
func (g *Gregorian) IsValidDate(d Date) bool {
	if d.Year < 0 || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > daysInMonth(d.Year, d.Month) {
		return false
	}
	if d.Hour < 0 || d.Hour >= 24 || d.Minute < 0 || d.Minute >= 60 {
		return false
	}
	return true
}

func (g *Gregorian) SetHoliday(d Date) {
	if g.IsValidDate(d) {
		g.holidays[d.DateString()] = struct{}{}
	}
}

func (g *Gregorian) SetRecurringHoliday(d Date) {
	if g.IsValidDate(d) {
		g.recurring[monthDay{Month: d.Month, Day: d.Day}] = struct{}{}
	}
}

func (g *Gregorian) IsHoliday(d Date) bool {
	dow := d.DayOfWeek()
	if dow == 0 || dow == 6 { // Sunday or Saturday
		return true
	}
	if _, ok := g.holidays[d.DateString()]; ok {
		return true
	}
	_, ok := g.recurring[monthDay{Month: d.Month, Day: d.Day}]
	return ok
}

// AddDay advances the date component by one day.
func (g *Gregorian) AddDay(d Date) Date {
	d.Day++
	if d.Day > daysInMonth(d.Year, d.Month) {
		d.Day = 1
		d.Month++
		if d.Month > 12 {
			d.Month = 1
			d.Year++
		}
	}
	return d
}

// RemoveDay retreats the date component by one day.
func (g *Gregorian) RemoveDay(d Date) Date {
	d.Day--
	if d.Day < 1 {
		d.Month--
		if d.Month < 1 {
			d.Month = 12
			d.Year--
		}
		d.Day = daysInMonth(d.Year, d.Month)
	}
	return d
}

// =============================================================================
// GREGORIAN CALENDAR MATH
// =============================================================================

// IsLeapYear applies the standard Gregorian rule: divisible by 4, except
// centuries, except every fourth century.
func IsLeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}
