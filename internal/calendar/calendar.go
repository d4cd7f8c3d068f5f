// Package calendar provides weekend- and holiday-aware date arithmetic for
// due-date computation. Holiday sets are hand-maintained per year and keyed
// by UTC calendar day.
package calendar

import "time"

const dayFormat = "2006-01-02"

// Philippine public and special non-working holidays, per official
// proclamation. Extend this map when a new year's proclamation is issued.
var holidays = map[string]struct{}{
	// 2024
	"2024-01-01": {},
	"2024-02-09": {},
	"2024-02-10": {},
	"2024-03-28": {},
	"2024-03-29": {},
	"2024-03-30": {},
	"2024-04-09": {},
	"2024-04-10": {},
	"2024-05-01": {},
	"2024-06-12": {},
	"2024-06-17": {},
	"2024-08-21": {},
	"2024-08-26": {},
	"2024-11-01": {},
	"2024-11-02": {},
	"2024-11-30": {},
	"2024-12-08": {},
	"2024-12-24": {},
	"2024-12-25": {},
	"2024-12-30": {},
	"2024-12-31": {},

	// 2025
	"2025-01-01": {},
	"2025-01-29": {},
	"2025-04-01": {},
	"2025-04-09": {},
	"2025-04-17": {},
	"2025-04-18": {},
	"2025-04-19": {},
	"2025-05-01": {},
	"2025-06-06": {},
	"2025-06-12": {},
	"2025-08-21": {},
	"2025-08-25": {},
	"2025-10-31": {},
	"2025-11-01": {},
	"2025-11-30": {},
	"2025-12-08": {},
	"2025-12-24": {},
	"2025-12-25": {},
	"2025-12-30": {},
	"2025-12-31": {},
}

// Calendar answers business-day questions against a fixed holiday set.
type Calendar struct {
	holidays map[string]struct{}
}

// New returns a calendar using the built-in holiday set.
func New() *Calendar {
	return &Calendar{holidays: holidays}
}

// NewWithHolidays returns a calendar with a caller-supplied holiday set,
// each entry formatted as YYYY-MM-DD.
func NewWithHolidays(days []string) *Calendar {
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// IsWeekend reports whether date falls on a Saturday or Sunday.
func (c *Calendar) IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether date's UTC calendar day is in the holiday set.
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[date.UTC().Format(dayFormat)]
	return ok
}

// IsBusinessDay reports whether date is neither a weekend nor a holiday.
func (c *Calendar) IsBusinessDay(date time.Time) bool {
	return !c.IsWeekend(date) && !c.IsHoliday(date)
}

// NextBusinessDay advances date one day at a time until it lands on a
// business day. A date already on a business day is returned unchanged.
func (c *Calendar) NextBusinessDay(date time.Time) time.Time {
	for !c.IsBusinessDay(date) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return a.UTC().Format(dayFormat) == b.UTC().Format(dayFormat)
}
