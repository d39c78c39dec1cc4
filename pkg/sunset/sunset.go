package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/nscharters/pkg/timetricks"

	"github.com/keep94/sunrise"
)

const (
	clockFmt = "3:04 PM"
	// maxDaySkew bounds the search for the calendar day the sunrise package
	// settled on.
	maxDaySkew = 3
)

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	if place.Location != nil {
		start = start.In(place.Location)
	}

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// The sunrise package is not very clean with its dates; step until the
	// first sunrise falls on the start day.
	for i := 0; i < maxDaySkew && !timetricks.SameDay(start, s.Sunrise()); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise(), Sunrise}
		ret[i+1] = SunEvent{s.Sunset(), Sunset}
		s.AddDays(1)
	}
	return ret
}

// DaylightOn formats sunrise and sunset for the calendar day of t.
func DaylightOn(t time.Time, place Place) Daylight {
	events := GetSunEvents(t, 24*time.Hour, place)
	if len(events) < 2 {
		return Daylight{}
	}
	return Daylight{
		Sunrise: events[0].Time.Format(clockFmt),
		Sunset:  events[1].Time.Format(clockFmt),
	}
}
