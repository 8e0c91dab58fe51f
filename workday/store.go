/*
store.go - Persistence interface for calendar state

PURPOSE:
  The engine itself is purely in-memory and call-scoped; the service
  around it persists the configured window and the registered holidays so
  a restart does not lose the calendar. This file defines the interface
  the engine's consumers depend on. The SQLite implementation lives in
  store/sqlite.

SEE ALSO:
  - store/sqlite/sqlite.go: the concrete implementation
  - api/handlers.go: persists mutations and re-hydrates the engine
*/
package workday

import (
	"context"

	"github.com/warp/workday-engine/calendar"
)

// Store persists workday calendar state: the single working window and
// both holiday tiers. Implementations must be safe for concurrent use.
type Store interface {
	// SaveWindow stores the working window, replacing any previous one.
	SaveWindow(ctx context.Context, start, stop calendar.Date) error

	// LoadWindow returns the stored window. ok is false when no window
	// has ever been saved.
	LoadWindow(ctx context.Context) (start, stop calendar.Date, ok bool, err error)

	// SaveHoliday stores a one-time holiday. Saving the same date twice
	// is a no-op.
	SaveHoliday(ctx context.Context, d calendar.Date) error

	// SaveRecurringHoliday stores a recurring (month, day) holiday.
	// Saving the same pair twice is a no-op.
	SaveRecurringHoliday(ctx context.Context, d calendar.Date) error

	// ListHolidays returns all one-time holidays, ordered by date.
	ListHolidays(ctx context.Context) ([]calendar.Date, error)

	// ListRecurringHolidays returns all recurring holidays ordered by
	// month then day, with year zero.
	ListRecurringHolidays(ctx context.Context) ([]calendar.Date, error)
}
