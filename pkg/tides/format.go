package tides

import (
	"fmt"
	"time"

	"github.com/spencer-p/nscharters/pkg/noaa"
	"github.com/spencer-p/nscharters/pkg/timetricks"
)

const (
	clockFmt = "15:04"
	timeFmt  = "3:04 PM"
)

// Messages shown in place of the event list.
const (
	NoPredictions = "No tide predictions found."
	NoMoreEvents  = "No more tide events today."
)

// Line renders one event the way the conditions panel lists it, e.g.
// "High @ 14:05 — 3.4 ft".
func Line(p noaa.Prediction) string {
	return fmt.Sprintf("%s @ %s — %.1f ft",
		p.Type.Name(),
		p.T().Format(clockFmt),
		float64(p.Height))
}

// Lines renders up to n upcoming events. When there are none, lines is empty
// and msg says why.
func Lines(now time.Time, preds noaa.Predictions, n int) (lines []string, msg string) {
	if len(preds) == 0 {
		return nil, NoPredictions
	}
	events := Upcoming(now, preds, n)
	if len(events) == 0 {
		return nil, NoMoreEvents
	}
	lines = make([]string, len(events))
	for i, p := range events {
		lines[i] = Line(p)
	}
	return lines, ""
}

// PrettyTime is a human-readable version of the event time relative to now,
// e.g. "Tomorrow at 5:12 AM".
func PrettyTime(p noaa.Prediction, now time.Time) string {
	return fmt.Sprintf("%s at %s",
		timetricks.Day(p.T(), now),
		p.T().Format(timeFmt))
}
