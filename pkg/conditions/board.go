package conditions

import (
	"sync"

	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/sunset"
	"github.com/spencer-p/nscharters/pkg/visualize"
	"github.com/spencer-p/nscharters/pkg/weather"
)

// Panel is what the page shows for one location. Each region is written by
// exactly one loader goroutine.
type Panel struct {
	Key   string `json:"key"`
	Label string `json:"label"`

	Weather    *weather.Report `json:"weather,omitempty"`
	WeatherMsg string          `json:"weather_msg,omitempty"`

	Tides    []string `json:"tides,omitempty"`
	TidesMsg string   `json:"tides_msg,omitempty"`

	Chart    *visualize.Chart `json:"chart,omitempty"`
	ChartMsg string           `json:"chart_msg,omitempty"`

	Daylight *sunset.Daylight `json:"daylight,omitempty"`
}

// Degraded reports whether any region still shows an "unavailable"
// placeholder, meaning its fetch failed or never finished. Answers such as
// "No tide predictions found." are not degraded.
func (p Panel) Degraded() bool {
	return p.WeatherMsg == weather.Unavailable ||
		p.TidesMsg == TidesUnavailable ||
		p.ChartMsg == ChartUnavailable
}

// Board is an in-memory Display. Every region starts out showing its
// "unavailable" placeholder, so a fetch that never finishes leaves that text
// in place.
type Board struct {
	mu     sync.Mutex
	order  []string
	panels map[string]*Panel
}

var _ Display = &Board{}

// NewBoard creates placeholder panels for every location in t.
func NewBoard(t stations.Table) *Board {
	b := &Board{panels: make(map[string]*Panel, len(t))}
	for _, l := range t {
		b.order = append(b.order, l.Key)
		b.panels[l.Key] = &Panel{
			Key:        l.Key,
			Label:      l.Label,
			WeatherMsg: weather.Unavailable,
			TidesMsg:   TidesUnavailable,
			ChartMsg:   ChartUnavailable,
		}
	}
	return b
}

// Panels returns a copy of every panel in table order.
func (b *Board) Panels() []Panel {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]Panel, 0, len(b.order))
	for _, key := range b.order {
		result = append(result, *b.panels[key])
	}
	return result
}

// Panel returns a copy of one panel.
func (b *Board) Panel(key string) (Panel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.panels[key]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

// update runs f on the panel for key, if there is one.
func (b *Board) update(key string, f func(*Panel)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.panels[key]; ok {
		f(p)
	}
}

func (b *Board) ShowWeather(key string, r weather.Report) {
	b.update(key, func(p *Panel) {
		p.Weather, p.WeatherMsg = &r, ""
	})
}

func (b *Board) WeatherUnavailable(key string, msg string) {
	b.update(key, func(p *Panel) {
		p.Weather, p.WeatherMsg = nil, msg
	})
}

func (b *Board) ShowTides(key string, lines []string) {
	b.update(key, func(p *Panel) {
		p.Tides, p.TidesMsg = lines, ""
	})
}

func (b *Board) TidesUnavailable(key string, msg string) {
	b.update(key, func(p *Panel) {
		p.Tides, p.TidesMsg = nil, msg
	})
}

func (b *Board) ShowChart(key string, c visualize.Chart) {
	b.update(key, func(p *Panel) {
		p.Chart, p.ChartMsg = &c, ""
	})
}

func (b *Board) ChartUnavailable(key string, msg string) {
	b.update(key, func(p *Panel) {
		p.Chart, p.ChartMsg = nil, msg
	})
}

func (b *Board) ShowDaylight(key string, d sunset.Daylight) {
	b.update(key, func(p *Panel) {
		p.Daylight = &d
	})
}
