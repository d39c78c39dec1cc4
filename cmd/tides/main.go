// Command tides prints the next high and low tide for a launch and can write
// the day's tide chart, drawn from a spline through the hi/lo events.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spencer-p/nscharters/pkg/conditions"
	"github.com/spencer-p/nscharters/pkg/logging"
	"github.com/spencer-p/nscharters/pkg/noaa"
	"github.com/spencer-p/nscharters/pkg/site"
	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/tides"
	"github.com/spencer-p/nscharters/pkg/visualize"
)

type options struct {
	location string
	site     string
	svg      string
	png      string
	span     time.Duration
	timeout  time.Duration
	logLevel string
}

func main() {
	var opts options
	flag.StringVar(&opts.location, "location", "crystal", "launch to report on")
	flag.StringVar(&opts.site, "site", "", "YAML file overriding the built-in launches")
	flag.StringVar(&opts.svg, "svg", "", "write the tide chart as SVG to this file")
	flag.StringVar(&opts.png, "png", "", "write the tide chart as PNG to this file")
	flag.DurationVar(&opts.span, "span", 24*time.Hour, "how far ahead the chart looks")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up on NOAA after this long")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(os.Stderr, level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	newSource := func(loc *time.Location) conditions.TideSource {
		return noaa.NewClient(nil, "", loc)
	}
	if err := run(ctx, os.Stdout, opts, newSource, log); err != nil {
		log.Error("tides failed", "err", err)
		os.Exit(1)
	}
}

// run reports on one launch. newSource builds the tide provider for the
// launch's time zone.
func run(ctx context.Context, out io.Writer, opts options, newSource func(*time.Location) conditions.TideSource, log *slog.Logger) error {
	data, err := site.Load(opts.site)
	if err != nil {
		return err
	}
	table := data.Stations
	loc, err := table.Lookup(opts.location)
	if err != nil {
		return err
	}

	cfg := conditions.DefaultConfig(table)
	cfg.ChartSpan = opts.span
	cfg.ChartInterval = noaa.IntervalHiLo
	loader := conditions.NewLoader(cfg, newSource(loc.Loc()), nil, log)

	preds, err := loader.Events(ctx, loc)
	if err != nil {
		return fmt.Errorf("failed to fetch from NOAA: %w", err)
	}
	report(out, loader, loc, preds)

	if opts.svg == "" && opts.png == "" {
		return nil
	}
	points, err := loader.ChartPoints(ctx, loc)
	if err != nil {
		return fmt.Errorf("failed to fetch chart data: %w", err)
	}
	if len(points) == 0 {
		return errors.New(conditions.NoChartData)
	}
	if opts.svg != "" {
		if err := writeFile(opts.svg, func(w io.Writer) error {
			_, err := visualize.Build(points, loc.Label).Encode(w)
			return err
		}); err != nil {
			return err
		}
		log.Info("wrote chart", "file", opts.svg, "points", len(points))
	}
	if opts.png != "" {
		if err := writeFile(opts.png, func(w io.Writer) error {
			return visualize.RenderPNG(w, points, loc.Label)
		}); err != nil {
			return err
		}
		log.Info("wrote chart", "file", opts.png, "points", len(points))
	}
	return nil
}

func report(out io.Writer, loader *conditions.Loader, loc stations.Location, preds noaa.Predictions) {
	now := loader.Now().In(loc.Loc())
	daylight := loader.Daylight(loc)

	fmt.Fprintf(out, "%s (NOAA %s)\n", loc.Label, loc.NOAAStation)
	fmt.Fprintf(out, "Sunrise %s, sunset %s\n", daylight.Sunrise, daylight.Sunset)

	next := tides.Next(now, preds)
	if next.High != nil {
		fmt.Fprintf(out, "Next high: %s (%.1f ft)\n", tides.PrettyTime(*next.High, now), float64(next.High.Height))
	}
	if next.Low != nil {
		fmt.Fprintf(out, "Next low:  %s (%.1f ft)\n", tides.PrettyTime(*next.Low, now), float64(next.Low.Height))
	}
	lines, msg := tides.Lines(now, preds, loader.UpcomingEvents())
	if msg != "" {
		lines = []string{msg}
	}
	for _, line := range lines {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}
