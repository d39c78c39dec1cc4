package conditions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/nscharters/pkg/noaa"
	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/tides"
	"github.com/spencer-p/nscharters/pkg/visualize"
	"github.com/spencer-p/nscharters/pkg/weather"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeTides answers hi/lo and interval queries per station.
type fakeTides struct {
	mu      sync.Mutex
	events  map[noaa.Station]noaa.Predictions
	samples map[noaa.Station]noaa.Predictions
	err     map[noaa.Station]error
	queries []noaa.PredictionQuery
}

func (f *fakeTides) GetPredictions(ctx context.Context, q *noaa.PredictionQuery) (noaa.Predictions, error) {
	f.mu.Lock()
	f.queries = append(f.queries, *q)
	f.mu.Unlock()
	if err := f.err[q.Station]; err != nil {
		return nil, err
	}
	if q.Interval == noaa.IntervalHiLo {
		return f.events[q.Station], nil
	}
	return f.samples[q.Station], nil
}

type fakeWeather struct {
	obs weather.Observation
	err error
}

func (f *fakeWeather) Current(ctx context.Context, lat, lon float64) (weather.Observation, error) {
	return f.obs, f.err
}

func utcTable() stations.Table {
	t := stations.Default()
	for i := range t {
		t[i].Timezone = "UTC"
	}
	return t
}

var today = time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)

func at(hours float64) time.Time {
	return today.Add(time.Duration(hours * float64(time.Hour)))
}

func ev(hours float64, tide noaa.Tide, height float64) noaa.Prediction {
	return noaa.Prediction{Time: noaa.Time(at(hours)), Height: noaa.Height(height), Type: tide}
}

func hourly(from, to int) noaa.Predictions {
	var preds noaa.Predictions
	for h := from; h <= to; h++ {
		preds = append(preds, noaa.Prediction{Time: noaa.Time(at(float64(h))), Height: noaa.Height(h % 5)})
	}
	return preds
}

func newLoader(tide TideSource, wx WeatherSource, now time.Time) *Loader {
	l := NewLoader(DefaultConfig(utcTable()), tide, wx, quiet)
	l.Now = func() time.Time { return now }
	return l
}

func temp(f float64) *float64 { return &f }

func TestLoadAllRegions(t *testing.T) {
	tide := &fakeTides{
		events: map[noaa.Station]noaa.Predictions{
			noaa.CrystalRiver: {
				ev(8, noaa.HighTide, 3.1),
				ev(14, noaa.LowTide, 0.2),
				ev(20, noaa.HighTide, 3.4),
			},
			noaa.TampaBay: {ev(3, noaa.LowTide, 0.1)},
		},
		samples: map[noaa.Station]noaa.Predictions{
			noaa.CrystalRiver: hourly(0, 47),
		},
	}
	wx := &fakeWeather{obs: weather.Observation{Temp: temp(81), Description: "clear sky", Icon: "01d"}}
	l := newLoader(tide, wx, at(10))

	b := NewBoard(l.Stations())
	l.Load(context.Background(), b)

	crystal, ok := b.Panel("crystal")
	if !ok {
		t.Fatalf("no crystal panel")
	}
	if diff := cmp.Diff([]string{"Low @ 14:00 — 0.2 ft", "High @ 20:00 — 3.4 ft"}, crystal.Tides); diff != "" {
		t.Errorf("crystal tides (-want,+got):\n%s", diff)
	}
	if crystal.Weather == nil || crystal.Weather.Temp != "81°F" || crystal.Weather.Wind != weather.Placeholder {
		t.Errorf("crystal weather = %+v (%q)", crystal.Weather, crystal.WeatherMsg)
	}
	if crystal.Chart == nil {
		t.Fatalf("crystal chart missing: %q", crystal.ChartMsg)
	}
	// 10:00 through 10:00 tomorrow, inclusive.
	if n := len(crystal.Chart.Line); n != 25 {
		t.Errorf("chart has %d points, want 25", n)
	}
	if crystal.Daylight == nil || crystal.Daylight.Sunrise == "" {
		t.Errorf("daylight missing: %+v", crystal.Daylight)
	}

	tampa, _ := b.Panel("tampa")
	if tampa.Tides != nil || tampa.TidesMsg != tides.NoMoreEvents {
		t.Errorf("tampa tides = %v / %q, want %q", tampa.Tides, tampa.TidesMsg, tides.NoMoreEvents)
	}
	if tampa.Chart != nil || tampa.ChartMsg != NoChartData {
		t.Errorf("tampa chart msg = %q, want %q", tampa.ChartMsg, NoChartData)
	}
}

func TestLoadIsolatesFailures(t *testing.T) {
	tide := &fakeTides{
		events: map[noaa.Station]noaa.Predictions{
			noaa.CrystalRiver: {ev(14, noaa.LowTide, 0.2), ev(20, noaa.HighTide, 3.4)},
		},
		samples: map[noaa.Station]noaa.Predictions{
			noaa.CrystalRiver: hourly(0, 47),
		},
		err: map[noaa.Station]error{
			noaa.TampaBay: &noaa.StatusError{Code: 503, Body: "down"},
		},
	}
	wx := &fakeWeather{err: errors.New("connection refused")}
	l := newLoader(tide, wx, at(10))

	b := NewBoard(l.Stations())
	l.Load(context.Background(), b)

	crystal, _ := b.Panel("crystal")
	if len(crystal.Tides) != 2 || crystal.Chart == nil {
		t.Errorf("crystal tide regions should have loaded: %+v", crystal)
	}
	if crystal.Weather != nil || crystal.WeatherMsg != weather.Unavailable {
		t.Errorf("crystal weather msg = %q", crystal.WeatherMsg)
	}

	tampa, _ := b.Panel("tampa")
	if tampa.TidesMsg != TidesUnavailable || tampa.ChartMsg != ChartUnavailable {
		t.Errorf("tampa msgs = %q / %q", tampa.TidesMsg, tampa.ChartMsg)
	}
	if !crystal.Degraded() || !tampa.Degraded() {
		t.Errorf("panels with upstream failures should be degraded")
	}
}

func TestLoadEmptyAndNoData(t *testing.T) {
	tide := &fakeTides{
		err: map[noaa.Station]error{
			noaa.TampaBay: &noaa.APIError{Message: "No Predictions data was found."},
		},
	}
	l := newLoader(tide, &fakeWeather{err: weather.ErrMissingKey}, at(10))

	b := NewBoard(l.Stations())
	l.Load(context.Background(), b)

	for _, p := range b.Panels() {
		if p.TidesMsg != tides.NoPredictions {
			t.Errorf("%s tides msg = %q, want %q", p.Key, p.TidesMsg, tides.NoPredictions)
		}
		if p.ChartMsg != NoChartData {
			t.Errorf("%s chart msg = %q, want %q", p.Key, p.ChartMsg, NoChartData)
		}
		if p.WeatherMsg != weather.MissingKey {
			t.Errorf("%s weather msg = %q, want %q", p.Key, p.WeatherMsg, weather.MissingKey)
		}
	}
}

func TestLoadSubsetAndUnknown(t *testing.T) {
	tide := &fakeTides{}
	l := newLoader(tide, &fakeWeather{}, at(10))
	b := NewBoard(l.Stations())
	l.Load(context.Background(), b, "tampa", "atlantis")

	for _, q := range tide.queries {
		if q.Station != noaa.TampaBay {
			t.Errorf("queried station %s", q.Station)
		}
	}
	crystal, _ := b.Panel("crystal")
	if crystal.TidesMsg != TidesUnavailable || crystal.Daylight != nil {
		t.Errorf("crystal was loaded: %+v", crystal)
	}
}

func TestEventsQueryWindow(t *testing.T) {
	tide := &fakeTides{}
	l := newLoader(tide, &fakeWeather{}, at(22.5))
	loc, _ := l.Stations().Lookup("crystal")
	if _, err := l.Events(context.Background(), loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := tide.queries[0]
	if !q.Start.Equal(today) || !q.End().Equal(today.Add(24*time.Hour)) || q.Interval != noaa.IntervalHiLo {
		t.Errorf("query %+v does not span today and tomorrow", q)
	}
}

func TestChartFromSpline(t *testing.T) {
	tide := &fakeTides{
		events: map[noaa.Station]noaa.Predictions{
			noaa.CrystalRiver: {
				ev(2, noaa.LowTide, 0.1),
				ev(8, noaa.HighTide, 3.1),
				ev(14, noaa.LowTide, 0.2),
				ev(20, noaa.HighTide, 3.4),
				ev(26, noaa.LowTide, 0.5),
				ev(32, noaa.HighTide, 3.0),
				ev(38, noaa.LowTide, 0.3),
			},
		},
	}
	cfg := DefaultConfig(utcTable())
	cfg.ChartInterval = noaa.IntervalHiLo
	l := NewLoader(cfg, tide, &fakeWeather{}, quiet)
	l.Now = func() time.Time { return at(10) }

	loc, _ := l.Stations().Lookup("crystal")
	points, err := l.ChartPoints(context.Background(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 25 {
		t.Fatalf("got %d points, want 25", len(points))
	}
	c := visualize.Build(points, loc.Label)
	if c.Line[0].X != visualize.LeftX {
		t.Errorf("first x = %f", c.Line[0].X)
	}
}

func TestChartFallbackToLeadingPoints(t *testing.T) {
	tide := &fakeTides{
		samples: map[noaa.Station]noaa.Predictions{
			// Data stops at 12:00 but it is now 10:00: three future points.
			noaa.CrystalRiver: hourly(0, 12),
		},
	}
	l := newLoader(tide, &fakeWeather{}, at(10))
	loc, _ := l.Stations().Lookup("crystal")
	points, err := l.ChartPoints(context.Background(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 13 || !points[0].Time.Equal(today) {
		t.Errorf("got %d points from %v, want all 13 from midnight", len(points), points[0].Time)
	}
}
