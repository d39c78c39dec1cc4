package conditions

import (
	"github.com/spencer-p/nscharters/pkg/sunset"
	"github.com/spencer-p/nscharters/pkg/visualize"
	"github.com/spencer-p/nscharters/pkg/weather"
)

// WeatherPort is the display region for one location's current weather.
type WeatherPort interface {
	ShowWeather(key string, r weather.Report)
	WeatherUnavailable(key string, msg string)
}

// TidePort is the display region for one location's upcoming tide events.
type TidePort interface {
	ShowTides(key string, lines []string)
	TidesUnavailable(key string, msg string)
}

// ChartPort is the display region for one location's tide chart.
type ChartPort interface {
	ShowChart(key string, c visualize.Chart)
	ChartUnavailable(key string, msg string)
}

// DaylightPort shows sunrise and sunset at a location.
type DaylightPort interface {
	ShowDaylight(key string, d sunset.Daylight)
}

// Display is every region of the conditions panel.
type Display interface {
	WeatherPort
	TidePort
	ChartPort
	DaylightPort
}
