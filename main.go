package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/spencer-p/nscharters/pkg/logging"
	"github.com/spencer-p/nscharters/pkg/site"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	OWMAPIKey       string `envconfig:"OWM_API_KEY"`
	NOAAApplication string `envconfig:"NOAA_APPLICATION" default:"NSCharters"`
	// SiteFile optionally overrides the built-in launches and trips.
	SiteFile string `envconfig:"SITE_FILE"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	// HTTPTimeout bounds each upstream request; zero means no timeout.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0"`
}

func main() {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(env.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, level, env.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, env, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("run failed", "err", err)
		os.Exit(1)
	}
	log.Info("shutting down")
}

func run(ctx context.Context, env Config, log *slog.Logger) error {
	data, err := site.Load(env.SiteFile)
	if err != nil {
		return err
	}
	loader := newLoader(env, data.Stations, log)

	srv := &http.Server{
		Handler:      newRouter(env, loader, data.Trips, log),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening and serving", "addr", srv.Addr, "prefix", env.Prefix)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
