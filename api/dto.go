/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal date value and engine types from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation only; semantic date validation is the calendar's
  job and happens in handlers via the engine.

SEE ALSO:
  - handlers.go: Uses these types
  - workday/engine.go: The domain types being carried
*/
package api

import (
	"github.com/warp/workday-engine/calendar"
	"github.com/warp/workday-engine/workday"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// DateDTO carries a five-field date/time value. Month and day are
// 1-based; hour is 24h.
type DateDTO struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// WindowDTO represents the configured working window.
type WindowDTO struct {
	Start           DateDTO `json:"start"`
	Stop            DateDTO `json:"stop"`
	DurationHours   int     `json:"duration_hours"`
	DurationMinutes int     `json:"duration_minutes"`
}

// SetWindowRequest is the request to configure the working window. Only
// the hour/minute fields of start and stop are meaningful, but full
// dates are accepted and validated.
type SetWindowRequest struct {
	Start DateDTO `json:"start"`
	Stop  DateDTO `json:"stop"`
}

// HolidayDTO represents a registered holiday. Recurring holidays carry
// year zero.
type HolidayDTO struct {
	Date      DateDTO `json:"date"`
	Recurring bool    `json:"recurring"`
}

// CreateHolidayRequest is the request to register a holiday.
type CreateHolidayRequest struct {
	Date      DateDTO `json:"date"`
	Recurring bool    `json:"recurring"`
}

// HolidayListDTO is the response listing both holiday tiers.
type HolidayListDTO struct {
	Holidays []HolidayDTO `json:"holidays"`
}

// HolidayCheckDTO is the holiday classification for a single date.
type HolidayCheckDTO struct {
	Date    DateDTO `json:"date"`
	Holiday bool    `json:"holiday"`
}

// IncrementRequest asks for a fractional workday increment from a start
// date. Amount may be negative (decrement) or fractional.
type IncrementRequest struct {
	Start  DateDTO `json:"start"`
	Amount float64 `json:"amount"`
}

// IncrementDTO is the computed target date.
type IncrementDTO struct {
	Start     DateDTO `json:"start"`
	Amount    float64 `json:"amount"`
	Result    DateDTO `json:"result"`
	Formatted string  `json:"formatted"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func (d DateDTO) toDate() calendar.Date {
	return calendar.NewDate(d.Year, d.Month, d.Day, d.Hour, d.Minute)
}

func fromDate(d calendar.Date) DateDTO {
	return DateDTO{Year: d.Year, Month: d.Month, Day: d.Day, Hour: d.Hour, Minute: d.Minute}
}

func toWindowDTO(w workday.Window) WindowDTO {
	return WindowDTO{
		Start:           fromDate(w.Start),
		Stop:            fromDate(w.Stop),
		DurationHours:   w.Duration.Hour,
		DurationMinutes: w.Duration.Minute,
	}
}
