package visualize

import (
	"time"
)

const (
	// MinPoints is the fewest points worth drawing a window with.
	MinPoints = 6
	// FallbackPoints is how many leading points are drawn when the window
	// comes up short.
	FallbackPoints = 24
)

// Window keeps the points in [now, now+span]. When that leaves fewer than
// minPoints, it instead returns the first fallbackN points of the whole
// series, whether or not they are in the future. Sparse future data thus
// still gets a chart, possibly one that starts in the past.
func Window(points []Point, now time.Time, span time.Duration, minPoints, fallbackN int) []Point {
	end := now.Add(span)
	var windowed []Point
	for _, p := range points {
		if p.Time.Before(now) || p.Time.After(end) {
			continue
		}
		windowed = append(windowed, p)
	}
	if len(windowed) >= minPoints {
		return windowed
	}

	fallbackN = min(max(fallbackN, 0), len(points))
	return append([]Point(nil), points[:fallbackN]...)
}
