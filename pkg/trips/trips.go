// Package trips holds the charter's trip offerings and their pricing.
package trips

import (
	"fmt"
)

const (
	// DefaultKey is the trip shown before a visitor picks one.
	DefaultKey = "inshore"
	// UnsetPrice is shown for a duration the trip has no price for.
	UnsetPrice = "$___"
)

// Prices is what a half and full day cost, as display text.
type Prices struct {
	Half string `json:"half,omitempty" yaml:"half,omitempty"`
	Full string `json:"full,omitempty" yaml:"full,omitempty"`
}

// Trip is one offering shown in the trip panel.
type Trip struct {
	Key         string   `json:"key" yaml:"key"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Bullets     []string `json:"bullets" yaml:"bullets"`
	Button      string   `json:"button" yaml:"button"`
	Background  string   `json:"background,omitempty" yaml:"background,omitempty"`
	Prices      Prices   `json:"prices" yaml:"prices"`
	PricingNote string   `json:"pricing_note" yaml:"pricing_note"`
}

// HalfDay is the half day price or UnsetPrice.
func (t Trip) HalfDay() string {
	if t.Prices.Half == "" {
		return UnsetPrice
	}
	return t.Prices.Half
}

// FullDay is the full day price or UnsetPrice.
func (t Trip) FullDay() string {
	if t.Prices.Full == "" {
		return UnsetPrice
	}
	return t.Prices.Full
}

// Table is the ordered list of trips.
type Table []Trip

// Default is the charter's current offerings.
func Default() Table {
	return Table{{
		Key:         "inshore",
		Title:       "Inshore Fishing",
		Description: "Our inshore trips target redfish, snook, trout, and other species in Crystal River’s flats and mangrove shorelines.",
		Bullets: []string{
			"Calm waters — great for kids and beginners",
			"Year-round availability",
			"Light tackle, lots of action",
		},
		Button:      "Book Inshore Trip",
		Background:  "static/images/redfish14.jpeg",
		Prices:      Prices{Half: "$475", Full: "$600"},
		PricingNote: "Licenses, gear, bait included.",
	}, {
		Key:         "scalloping",
		Title:       "Scalloping",
		Description: "Experience one of Crystal River’s most unique adventures during scallop season. Perfect for families, groups, and first-timers.",
		Bullets: []string{
			"Seasonal (summer months)",
			"Snorkeling in clear Gulf waters",
			"Great for all ages",
		},
		Button:      "Book Scalloping Trip",
		Background:  "static/images/scallop2.jpeg",
		Prices:      Prices{Half: "$400", Full: "$600"},
		PricingNote: "Scalloping is seasonal — ask about dates, tides, and group rates.",
	}, {
		Key:         "nearshore",
		Title:       "Nearshore Fishing",
		Description: "When conditions allow, we head just a few miles offshore to target grouper, mackerel, cobia, and other hard-fighting species.",
		Bullets: []string{
			"Bigger fish, heavier tackle",
			"Weather dependent",
			"Great for experienced anglers",
		},
		Button:      "Book Nearshore Trip",
		Background:  "static/images/grouper1.jpeg",
		Prices:      Prices{Half: "From $500", Full: "From $700"},
		PricingNote: "Nearshore trips are weather dependent — we’ll confirm conditions before launch.",
	}}
}

// Lookup finds a trip by key.
func (t Table) Lookup(key string) (Trip, error) {
	for _, trip := range t {
		if trip.Key == key {
			return trip, nil
		}
	}
	return Trip{}, fmt.Errorf("unknown trip %q", key)
}
