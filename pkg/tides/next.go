// Package tides picks the events a visitor cares about out of a window of
// NOAA predictions: the next high, the next low, and the next few events in
// order.
package tides

import (
	"sort"
	"time"

	"github.com/spencer-p/nscharters/pkg/noaa"
)

// NextEvents holds the earliest upcoming high and low tide. A nil field means
// the fetched window holds no such event at or after now.
type NextEvents struct {
	High *noaa.Prediction `json:"high"`
	Low  *noaa.Prediction `json:"low"`
}

// Next finds the earliest high and the earliest low whose time is not before
// now. The two are picked independently and need not be adjacent. preds is not
// modified. If the same kind appears twice at one instant the first in time
// order wins.
func Next(now time.Time, preds noaa.Predictions) NextEvents {
	var next NextEvents
	for _, p := range upcoming(now, preds) {
		p := p
		switch p.Type {
		case noaa.HighTide:
			if next.High == nil {
				next.High = &p
			}
		case noaa.LowTide:
			if next.Low == nil {
				next.Low = &p
			}
		}
		if next.High != nil && next.Low != nil {
			break
		}
	}
	return next
}

// Upcoming returns at most n high or low events at or after now, earliest
// first.
func Upcoming(now time.Time, preds noaa.Predictions, n int) noaa.Predictions {
	result := noaa.Predictions{}
	for _, p := range upcoming(now, preds) {
		if len(result) >= n {
			break
		}
		if p.Type.Valid() {
			result = append(result, p)
		}
	}
	return result
}

// upcoming sorts a copy of preds and drops everything before now.
func upcoming(now time.Time, preds noaa.Predictions) noaa.Predictions {
	sorted := make(noaa.Predictions, len(preds))
	copy(sorted, preds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].T().Before(sorted[j].T())
	})

	first := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].T().Before(now)
	})
	return sorted[first:]
}
