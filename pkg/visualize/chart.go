// Package visualize draws tide sparklines. Build does the geometry, Encode
// writes it out as a self-contained SVG, and RenderPNG offers a raster
// version for places that cannot embed SVG.
package visualize

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/spencer-p/nscharters/pkg/noaa"
)

const (
	width  = 600
	height = 160

	padLeft   = 36
	padRight  = 12
	padTop    = 16
	padBottom = 24

	// LeftX and RightX are where the first and last points land.
	LeftX  = padLeft
	RightX = width - padRight
	// TopY is the highest observed tide, BottomY the lowest and the floor of
	// the filled area.
	TopY    = padTop
	BottomY = height - padBottom

	labelFmt = "3:04 PM"
)

// Point is one (time, height) sample of a chart window.
type Point struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"`
}

// XY is a position in SVG user units.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Chart is everything needed to draw one sparkline.
type Chart struct {
	Label string `json:"label"`
	// Line runs through every point in order.
	Line []XY `json:"line"`
	// Area is Line closed down to BottomY.
	Area []XY `json:"area"`

	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	MinLabel string  `json:"min_label"`
	MaxLabel string  `json:"max_label"`

	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
}

// FromPredictions projects predictions onto chart points.
func FromPredictions(preds noaa.Predictions) []Point {
	points := make([]Point, len(preds))
	for i, p := range preds {
		points[i] = Point{Time: p.T(), Height: float64(p.Height)}
	}
	return points
}

// Build maps points onto the chart. Points must be in time order and there
// must be at least one; callers show a placeholder instead of charting
// nothing. Both axes are normalized to what the points actually cover, not
// to a clock range or a tidal datum.
func Build(points []Point, label string) Chart {
	if len(points) == 0 {
		panic("visualize: Build called with no points")
	}

	first, last := points[0].Time, points[len(points)-1].Time
	timeSpan := float64(last.Sub(first))
	if timeSpan <= 0 {
		timeSpan = 1
	}

	lo, hi := points[0].Height, points[0].Height
	for _, p := range points[1:] {
		lo = min(lo, p.Height)
		hi = max(hi, p.Height)
	}
	heightSpan := hi - lo
	if heightSpan == 0 {
		heightSpan = 1
	}

	c := Chart{
		Label:      label,
		Line:       make([]XY, len(points)),
		Min:        lo,
		Max:        hi,
		MinLabel:   fmt.Sprintf("%.1f ft", lo),
		MaxLabel:   fmt.Sprintf("%.1f ft", hi),
		StartLabel: first.Format(labelFmt),
		EndLabel:   last.Format(labelFmt),
	}
	for i, p := range points {
		c.Line[i] = XY{
			X: LeftX + float64(p.Time.Sub(first))/timeSpan*(RightX-LeftX),
			Y: BottomY - (p.Height-lo)/heightSpan*(BottomY-TopY),
		}
	}

	c.Area = make([]XY, 0, len(c.Line)+2)
	c.Area = append(c.Area, c.Line...)
	c.Area = append(c.Area,
		XY{X: c.Line[len(c.Line)-1].X, Y: BottomY},
		XY{X: c.Line[0].X, Y: BottomY})
	return c
}

// Encode writes the chart as an SVG document.
func (c Chart) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil && err == nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg class="tide-chart" viewBox="0 0 %d %d" role="img" aria-label="%s" xmlns="http://www.w3.org/2000/svg">`,
		width, height, html.EscapeString(c.Label)))
	io(fmt.Fprintf(w, `<polygon class="tide-area" fill="skyblue" fill-opacity="0.5" points="%s"/>`, points(c.Area)))
	io(fmt.Fprintf(w, `<polyline class="tide-line" fill="none" stroke="steelblue" stroke-width="2" points="%s"/>`, points(c.Line)))

	io(fmt.Fprintf(w, `<text class="tide-max" x="%d" y="%d" font-size="11" text-anchor="end">%s</text>`,
		LeftX-4, TopY+4, c.MaxLabel))
	io(fmt.Fprintf(w, `<text class="tide-min" x="%d" y="%d" font-size="11" text-anchor="end">%s</text>`,
		LeftX-4, BottomY, c.MinLabel))
	io(fmt.Fprintf(w, `<text class="tide-start" x="%d" y="%d" font-size="11">%s</text>`,
		LeftX, height-6, c.StartLabel))
	io(fmt.Fprintf(w, `<text class="tide-end" x="%d" y="%d" font-size="11" text-anchor="end">%s</text>`,
		RightX, height-6, c.EndLabel))
	if c.Label != "" {
		io(fmt.Fprintf(w, `<text class="tide-label" x="%d" y="%d" font-size="12" text-anchor="middle">%s</text>`,
			(LeftX+RightX)/2, TopY-4, html.EscapeString(c.Label)))
	}

	io(fmt.Fprintf(w, `</svg>`))
	return n, err
}

// String is the SVG as a string, for templates.
func (c Chart) String() string {
	var b strings.Builder
	c.Encode(&b)
	return b.String()
}

func points(xys []XY) string {
	parts := make([]string, len(xys))
	for i, p := range xys {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
