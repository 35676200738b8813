// Package analysis implements the recurring-defect engine: aggregation of
// inspection records into per-defect summaries, the recurrence classifier,
// the presentation ranking, the weekly drill-down, and missing-period
// detection. Everything in this package is pure: the same input records
// always yield the same output, and no function performs I/O.
package analysis

import "time"

// Calendar weeks follow ISO 8601: Monday is the first day of the week.
// A record's week is identified by the Monday of the week containing its
// inspection date, so distinct week-start dates equal distinct ISO weeks.

// WeekStart returns the Monday (UTC midnight) of the calendar week
// containing the given date.
func WeekStart(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}
