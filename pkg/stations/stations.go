// Package stations holds the launch sites the site reports conditions for,
// and the map data derived from them.
package stations

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/spencer-p/nscharters/pkg/noaa"
)

const defaultTimezone = "America/New_York"

// ErrUnknown is returned for a key that is not in the table.
var ErrUnknown = errors.New("unknown location")

// Location is a launch site matched with the NOAA station whose tides apply
// to it.
type Location struct {
	Key         string       `json:"key" yaml:"key"`
	Label       string       `json:"label" yaml:"label"`
	Lat         float64      `json:"lat" yaml:"lat"`
	Lon         float64      `json:"lon" yaml:"lon"`
	NOAAStation noaa.Station `json:"noaa_station" yaml:"noaa_station"`
	Address     string       `json:"address" yaml:"address"`
	// Timezone is the IANA zone of the station's local standard/daylight
	// time, which is what NOAA reports in.
	Timezone string `json:"timezone" yaml:"timezone"`
}

// Point is the location as an orb point (lon, lat).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

// Loc loads the location's time zone, falling back to time.Local.
func (l Location) Loc() *time.Location {
	if l.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate checks a Location's fields.
func (l Location) Validate() error {
	if l.Key == "" {
		return errors.New("location key is required")
	}
	if l.NOAAStation == "" {
		return fmt.Errorf("location %q: noaa station is required", l.Key)
	}
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("location %q: invalid latitude: %f", l.Key, l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("location %q: invalid longitude: %f", l.Key, l.Lon)
	}
	if l.Timezone != "" {
		if _, err := time.LoadLocation(l.Timezone); err != nil {
			return fmt.Errorf("location %q: %w", l.Key, err)
		}
	}
	return nil
}

// Table is an ordered set of locations. Order is display order.
type Table []Location

// Default is the charter's two launches.
func Default() Table {
	return Table{{
		Key:         "crystal",
		Label:       "Crystal River Launch",
		Lat:         28.8559,
		Lon:         -82.6413,
		NOAAStation: noaa.CrystalRiver,
		Address:     "12073 W Fort Island Trl, Crystal River, FL 34429-9215",
		Timezone:    defaultTimezone,
	}, {
		Key:         "tampa",
		Label:       "Tampa Launch",
		Lat:         27.8937,
		Lon:         -82.5266,
		NOAAStation: noaa.TampaBay,
		Address:     "5108 W Gandy Blvd, Tampa, FL 33611",
		Timezone:    defaultTimezone,
	}}
}

// Lookup finds a location by key.
func (t Table) Lookup(key string) (Location, error) {
	for _, l := range t {
		if l.Key == key {
			return l, nil
		}
	}
	return Location{}, fmt.Errorf("%w %q", ErrUnknown, key)
}

// Keys lists the keys in display order.
func (t Table) Keys() []string {
	keys := make([]string, len(t))
	for i, l := range t {
		keys[i] = l.Key
	}
	return keys
}

// Validate checks every location and that keys are unique.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("no locations configured")
	}
	seen := make(map[string]bool, len(t))
	for _, l := range t {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.Key] {
			return fmt.Errorf("duplicate location %q", l.Key)
		}
		seen[l.Key] = true
	}
	return nil
}
