// Package conditions runs one fetch-and-render cycle of the live conditions
// panel. Each (location, widget) pair is fetched independently and written
// into its own display region; a failure anywhere degrades only that region
// to a placeholder.
package conditions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spencer-p/nscharters/pkg/metrics"
	"github.com/spencer-p/nscharters/pkg/noaa"
	"github.com/spencer-p/nscharters/pkg/noaa/splines"
	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/sunset"
	"github.com/spencer-p/nscharters/pkg/tides"
	"github.com/spencer-p/nscharters/pkg/timetricks"
	"github.com/spencer-p/nscharters/pkg/visualize"
	"github.com/spencer-p/nscharters/pkg/weather"
)

// Placeholders for the tide regions.
const (
	TidesUnavailable = "Tides unavailable right now."
	ChartUnavailable = "Tide chart unavailable right now."
	NoChartData      = "No tide data for the next 24 hours."
)

const (
	providerNOAA = "noaa"
	providerOWM  = "owm"

	day = 24 * time.Hour
)

// TideSource is the upstream tide provider.
type TideSource interface {
	GetPredictions(ctx context.Context, q *noaa.PredictionQuery) (noaa.Predictions, error)
}

// WeatherSource is the upstream weather provider.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (weather.Observation, error)
}

// Config is everything a Loader needs to know up front.
type Config struct {
	Stations stations.Table
	// EventDays is how many calendar days of hi/lo events to request, so
	// that a next event exists even late in the evening.
	EventDays int
	// UpcomingEvents is how many events the tide region lists.
	UpcomingEvents int

	// ChartSpan is how far ahead the chart looks.
	ChartSpan time.Duration
	// ChartInterval is the NOAA sampling interval for chart data. With
	// noaa.IntervalHiLo the chart is drawn from a spline through the events.
	ChartInterval  string
	ChartMinPoints int
	ChartFallback  int
}

// DefaultConfig is the configuration the site runs with.
func DefaultConfig(t stations.Table) Config {
	return Config{
		Stations:       t,
		EventDays:      2,
		UpcomingEvents: 4,
		ChartSpan:      day,
		ChartInterval:  noaa.IntervalHourly,
		ChartMinPoints: visualize.MinPoints,
		ChartFallback:  visualize.FallbackPoints,
	}
}

// Loader fetches conditions and writes them to display ports.
type Loader struct {
	cfg     Config
	tides   TideSource
	weather WeatherSource
	log     *slog.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time
}

func NewLoader(cfg Config, tides TideSource, weather WeatherSource, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		cfg:     cfg,
		tides:   tides,
		weather: weather,
		log:     log,
		Now:     time.Now,
	}
}

// Stations is the table the loader was configured with.
func (l *Loader) Stations() stations.Table {
	return l.cfg.Stations
}

// UpcomingEvents is how many events a tide listing shows.
func (l *Loader) UpcomingEvents() int {
	return l.cfg.UpcomingEvents
}

// Load fetches every widget for the given locations (all of them when keys is
// empty) concurrently and returns once every fetch has finished or given up.
// Unknown keys are logged and skipped.
func (l *Loader) Load(ctx context.Context, d Display, keys ...string) {
	if len(keys) == 0 {
		keys = l.cfg.Stations.Keys()
	}

	var wg sync.WaitGroup
	run := func(loc stations.Location, widget string, f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					l.log.Error("widget panicked", "location", loc.Key, "widget", widget, "panic", r)
				}
			}()
			f()
		}()
	}

	for _, key := range keys {
		loc, err := l.cfg.Stations.Lookup(key)
		if err != nil {
			l.log.Warn("skipping location", "err", err)
			continue
		}
		d.ShowDaylight(loc.Key, l.Daylight(loc))
		run(loc, "weather", func() { l.LoadWeather(ctx, loc, d) })
		run(loc, "tides", func() { l.LoadTides(ctx, loc, d) })
		run(loc, "chart", func() { l.LoadChart(ctx, loc, d) })
	}
	wg.Wait()
}

// Daylight is today's sunrise and sunset at loc.
func (l *Loader) Daylight(loc stations.Location) sunset.Daylight {
	tz := loc.Loc()
	return sunset.DaylightOn(l.Now().In(tz), sunset.Place{
		Lat:      loc.Lat,
		Long:     loc.Lon,
		Location: tz,
	})
}

// LoadWeather fills one weather region.
func (l *Loader) LoadWeather(ctx context.Context, loc stations.Location, p WeatherPort) {
	obs, err := l.weather.Current(ctx, loc.Lat, loc.Lon)
	switch {
	case errors.Is(err, weather.ErrMissingKey):
		metrics.ObserveUpstream(providerOWM, metrics.OutcomeMissingKey)
		p.WeatherUnavailable(loc.Key, weather.MissingKey)
	case err != nil:
		metrics.ObserveUpstream(providerOWM, metrics.OutcomeError)
		l.log.Warn("weather unavailable", "location", loc.Key, "err", err)
		p.WeatherUnavailable(loc.Key, weather.Unavailable)
	default:
		metrics.ObserveUpstream(providerOWM, metrics.OutcomeOK)
		p.ShowWeather(loc.Key, weather.NewReport(obs))
	}
}

// Events fetches the hi/lo events covering today and the following days.
func (l *Loader) Events(ctx context.Context, loc stations.Location) (noaa.Predictions, error) {
	days := max(l.cfg.EventDays, 1)
	preds, err := l.tides.GetPredictions(ctx, &noaa.PredictionQuery{
		Start:    timetricks.TrimClock(l.Now().In(loc.Loc())),
		Duration: time.Duration(days-1) * day,
		Station:  loc.NOAAStation,
		Interval: noaa.IntervalHiLo,
	})
	if noaa.IsNoData(err) {
		metrics.ObserveUpstream(providerNOAA, metrics.OutcomeEmpty)
		return nil, nil
	}
	if err != nil {
		metrics.ObserveUpstream(providerNOAA, metrics.OutcomeError)
		return nil, fmt.Errorf("events for %s: %w", loc.Key, err)
	}
	metrics.ObserveUpstream(providerNOAA, metrics.OutcomeOK)
	return preds, nil
}

// LoadTides fills one tide region with the next few events.
func (l *Loader) LoadTides(ctx context.Context, loc stations.Location, p TidePort) {
	preds, err := l.Events(ctx, loc)
	if err != nil {
		l.log.Warn("tides unavailable", "location", loc.Key, "err", err)
		p.TidesUnavailable(loc.Key, TidesUnavailable)
		return
	}
	lines, msg := tides.Lines(l.Now(), preds, l.cfg.UpcomingEvents)
	if msg != "" {
		p.TidesUnavailable(loc.Key, msg)
		return
	}
	p.ShowTides(loc.Key, lines)
}

// ChartPoints fetches and windows the samples for loc's chart. An empty
// result means there is nothing to draw.
func (l *Loader) ChartPoints(ctx context.Context, loc stations.Location) ([]visualize.Point, error) {
	now := l.Now().In(loc.Loc())
	q := &noaa.PredictionQuery{
		Start: timetricks.TrimClock(now),
		// Through the end of tomorrow, so now+span is always covered.
		Duration: l.cfg.ChartSpan + day,
		Station:  loc.NOAAStation,
		Interval: l.cfg.ChartInterval,
	}
	preds, err := l.tides.GetPredictions(ctx, q)
	if noaa.IsNoData(err) {
		metrics.ObserveUpstream(providerNOAA, metrics.OutcomeEmpty)
		return nil, nil
	}
	if err != nil {
		metrics.ObserveUpstream(providerNOAA, metrics.OutcomeError)
		return nil, fmt.Errorf("chart samples for %s: %w", loc.Key, err)
	}
	metrics.ObserveUpstream(providerNOAA, metrics.OutcomeOK)

	if q.Interval == noaa.IntervalHiLo {
		preds = splines.Sample(splines.CurvesBetween(preds), time.Hour)
	}
	return visualize.Window(visualize.FromPredictions(preds), now,
		l.cfg.ChartSpan, l.cfg.ChartMinPoints, l.cfg.ChartFallback), nil
}

// LoadChart fills one chart region.
func (l *Loader) LoadChart(ctx context.Context, loc stations.Location, p ChartPort) {
	points, err := l.ChartPoints(ctx, loc)
	if err != nil {
		l.log.Warn("tide chart unavailable", "location", loc.Key, "err", err)
		p.ChartUnavailable(loc.Key, ChartUnavailable)
		return
	}
	if len(points) == 0 {
		p.ChartUnavailable(loc.Key, NoChartData)
		return
	}
	p.ShowChart(loc.Key, visualize.Build(points, loc.Label))
}
