// Package workday implements calendar-day arithmetic in a configured location.
package workday

import (
	"time"
)

// Layout is the calendar-day format used on the command line, in the store and in API parameters.
const Layout = "2006-01-02"

// Floor truncates t to midnight of its calendar day in loc.
func Floor(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Yesterday returns midnight of the calendar day preceding now in loc.
func Yesterday(now time.Time, loc *time.Location) time.Time {
	return Floor(now, loc).AddDate(0, 0, -1)
}

func Parse(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(Layout, s, loc)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Days lists every calendar day in [start, end] in chronological order.
// AddDate is used instead of adding 24h so DST transitions never skip or repeat a day.
func Days(start, end time.Time) []string {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if start.After(end) {
		return []string{}
	}

	days := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Format(d))
	}
	return days
}
