// Package site loads the launch and trip tables from an optional YAML file.
package site

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/trips"
)

// Site is the reference data the service runs with.
type Site struct {
	Stations stations.Table `yaml:"stations"`
	Trips    trips.Table    `yaml:"trips"`
}

// Default is the built-in data.
func Default() Site {
	return Site{
		Stations: stations.Default(),
		Trips:    trips.Default(),
	}
}

// Load reads path, or returns Default when path is empty. A section missing
// from the file keeps its default.
func Load(path string) (Site, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return Site{}, err
	}
	return Parse(file)
}

// Parse decodes a site file and validates it.
func Parse(buf []byte) (Site, error) {
	var parsed Site
	if err := yaml.UnmarshalStrict(buf, &parsed); err != nil {
		return Site{}, fmt.Errorf("site: %w", err)
	}

	s := Default()
	if len(parsed.Stations) > 0 {
		s.Stations = parsed.Stations
	}
	if len(parsed.Trips) > 0 {
		s.Trips = parsed.Trips
	}
	if err := s.Validate(); err != nil {
		return Site{}, err
	}
	return s, nil
}

func (s Site) Validate() error {
	if err := s.Stations.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	seen := make(map[string]bool, len(s.Trips))
	for _, t := range s.Trips {
		if t.Key == "" {
			return errors.New("site: trip key is required")
		}
		if seen[t.Key] {
			return fmt.Errorf("site: duplicate trip %q", t.Key)
		}
		seen[t.Key] = true
	}
	return nil
}
