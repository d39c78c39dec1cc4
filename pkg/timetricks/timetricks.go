package timetricks

import (
	"math"
	"time"
)

const (
	dayFormat   = "20060102"
	shortFormat = "01/02"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.In(t.Location()).Format(dayFormat)
}

// TrimClock returns midnight of the calendar day of t, in t's location.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// QueryDate formats t the way date-ranged upstream APIs want it, YYYYMMDD in
// t's own location.
func QueryDate(t time.Time) string {
	return t.Format(dayFormat)
}

// Day describes the calendar day of t relative to now: "Today", "Tomorrow",
// the weekday name within the coming week, and a short date otherwise.
func Day(t, now time.Time) string {
	today := TrimClock(now.In(t.Location()))
	switch days := int(math.Round(TrimClock(t).Sub(today).Hours() / 24)); {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days > 1 && days < 7:
		return t.Weekday().String()
	default:
		return t.Format(shortFormat)
	}
}

// Rezone reinterprets the wall clock of t in loc. Upstream providers report
// station-local wall times without an offset.
func Rezone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	y, m, d := t.Date()
	h, min, s := t.Clock()
	return time.Date(y, m, d, h, min, s, t.Nanosecond(), loc)
}
