package attendance

import (
	"errors"
	"strings"
	"time"
)

const (
	// DayLayout is the wire and key format for calendar days.
	DayLayout = "2006-01-02"
	// MonthLayout is the wire format for calendar months.
	MonthLayout = "2006-01"
	// TimeLayout formats submission times in day details.
	TimeLayout = "3:04 PM"
)

var (
	ErrInvalidMonth = errors.New("month must be formatted YYYY-MM")
	ErrInvalidDate  = errors.New("date must be formatted YYYY-MM-DD")
)

// ParseMonth parses "YYYY-MM" into the first day of that month at midnight in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// ParseDay parses "YYYY-MM-DD" into that day at midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// GridRange returns the first and last day of the calendar grid that shows
// month: the month padded out to whole Sunday-first weeks.
func GridRange(month time.Time, loc *time.Location) (start, end time.Time) {
	y, m, _ := month.In(loc).Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)

	start = first.AddDate(0, 0, -int(first.Weekday()))
	end = last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	return start, end
}

// Days lists every midnight from start through end inclusive.
func Days(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// instantKey is the calendar day of an instant as seen in loc.
func instantKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// calendarKey is the calendar day carried by a date-only value.
func calendarKey(t time.Time) string {
	return t.Format(DayLayout)
}
