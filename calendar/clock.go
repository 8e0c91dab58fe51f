/*
clock.go - Minute-level clock arithmetic

PURPOSE:
  Pure functions converting between (hour, minute) pairs and minute
  counts, plus wraparound-safe addition and subtraction. The workday
  engine uses these to derive the daily window duration and to apply the
  sub-day remainder of a fractional increment.

WRAPAROUND SEMANTICS:
  AddMinutes applies NO 24h wrap: callers handle day boundaries before
  calling, so an overflowing sum surfaces as an hour >= 24 instead of
  silently losing a day. SubtractMinutes wraps a negative difference
  backward across midnight (adds 1440); it models absolute clock-time
  differences, not calendar-day math.

SEE ALSO:
  - workday/engine.go: the only consumer of these functions
*/
package calendar

const (
	// MinutesPerHour is the number of minutes in an hour.
	MinutesPerHour = 60
	// MinutesPerDay is the number of minutes in a day, used to wrap
	// negative clock differences backward across midnight.
	MinutesPerDay = 24 * MinutesPerHour
)

// ToMinutes converts an (hour, minute) pair to a total minute count.
func ToMinutes(hour, minute int) int {
	return hour*MinutesPerHour + minute
}

// AddMinutes adds delta minutes to a base minute count and returns the
// result as an (hour, minute) pair. No 24h wraparound is applied.
func AddMinutes(base, delta int) (hour, minute int) {
	total := base + delta
	return total / MinutesPerHour, total % MinutesPerHour
}

// SubtractMinutes subtracts smaller from larger and returns the result
// as an (hour, minute) pair. A negative difference wraps backward across
// midnight.
func SubtractMinutes(larger, smaller int) (hour, minute int) {
	diff := larger - smaller
	if diff < 0 {
		diff += MinutesPerDay
	}
	return diff / MinutesPerHour, diff % MinutesPerHour
}

// AddClock adds two (hour, minute) pairs.
func AddClock(h1, m1, h2, m2 int) (hour, minute int) {
	return AddMinutes(ToMinutes(h1, m1), ToMinutes(h2, m2))
}

// SubtractClock subtracts the second (hour, minute) pair from the first,
// wrapping backward across midnight when the second is later. This is
// how the workday duration is derived from a stop and start time.
func SubtractClock(h1, m1, h2, m2 int) (hour, minute int) {
	return SubtractMinutes(ToMinutes(h1, m1), ToMinutes(h2, m2))
}
