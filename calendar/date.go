/*
Package calendar provides the date value type and calendar rules used by
the workday engine.

PURPOSE:
  This package contains the building blocks for business-hours date math:
  a plain date/time value (Date), a calendar capability interface (Rules)
  with a Gregorian implementation, and wraparound-safe clock arithmetic.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A five-field date/time value (year, month, day, hour, minute)
  - Invalid sentinel: all fields -1, returned instead of raising errors
  - DayOfWeek: Sakamoto/Keith-Craver congruence, 0=Sunday..6=Saturday

DESIGN PRINCIPLES:
  1. Value semantics: Date is copied freely, never shared or aliased
  2. No validation here: validity is a calendar concern (see Rules), so
     the same type can carry in-flight intermediate results
  3. Failure is a value: operations return the invalid sentinel rather
     than panicking across the package boundary

SEE ALSO:
  - gregorian.go: Rules interface and Gregorian implementation
  - clock.go: minute-level clock arithmetic
*/
package calendar

import "fmt"

// =============================================================================
// DATE - Plain date/time value
// =============================================================================

// Date is a calendar date with a clock time. Month and Day are 1-based,
// Hour is 24h. The zero value is "valid-shaped" but semantically
// meaningless; callers must run it through Rules.IsValidDate before
// trusting it.
type Date struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// NewDate constructs a Date from its five components.
func NewDate(year, month, day, hour, minute int) Date {
	return Date{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
}

// Invalid returns the sentinel value signaling a failed computation.
// All five fields are -1.
func Invalid() Date {
	return Date{Year: -1, Month: -1, Day: -1, Hour: -1, Minute: -1}
}

// IsInvalid reports whether d is the invalid sentinel.
func (d Date) IsInvalid() bool {
	return d == Invalid()
}

// Clock returns the time-of-day components.
func (d Date) Clock() (hour, minute int) {
	return d.Hour, d.Minute
}

// WithClock returns a copy of d with the time-of-day replaced. The date
// components are untouched.
func (d Date) WithClock(hour, minute int) Date {
	d.Hour = hour
	d.Minute = minute
	return d
}

// =============================================================================
// DAY OF WEEK
// =============================================================================

// Month offsets for the Sakamoto/Keith-Craver congruence, months 1..12.
var dowOffsets = [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

// DayOfWeek returns the day of the week, 0=Sunday .. 6=Saturday, using
// the Sakamoto/Keith-Craver method. January and February are counted as
// months of the previous year. A month outside 1..12 (the invalid
// sentinel included) yields -1.
func (d Date) DayOfWeek() int {
	if d.Month < 1 || d.Month > 12 {
		return -1
	}
	y := d.Year
	if d.Month < 3 {
		y--
	}
	return (y + y/4 - y/100 + y/400 + dowOffsets[d.Month-1] + d.Day) % 7
}

// =============================================================================
// FORMATTING
// =============================================================================

// DateString formats the date portion as "YYYY-MM-DD", zero padded.
// This is also the key used for one-time holiday lookups.
func (d Date) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// String formats the full value as "YYYY-MM-DD HH:MM", zero padded.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute)
}
