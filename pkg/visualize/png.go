package visualize

import (
	"errors"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	tideBlue = drawing.ColorFromHex("4682b4")
	tideFill = drawing.ColorFromHex("87ceeb").WithAlpha(128)
)

// RenderPNG draws the same window as Build, rasterized. It needs two points
// to establish a time axis.
func RenderPNG(w io.Writer, points []Point, label string) error {
	if len(points) < 2 {
		return errors.New("visualize: need at least two points to render")
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Time
		ys[i] = p.Height
	}

	graph := chart.Chart{
		Title:  label,
		Width:  width * 2,
		Height: height * 2,
		Background: chart.Style{
			Padding: chart.Box{Top: padTop * 2, Left: padLeft, Right: padRight * 2, Bottom: padBottom},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "ft",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    label,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: tideBlue,
					StrokeWidth: 2,
					FillColor:   tideFill,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
