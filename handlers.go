package main

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spencer-p/nscharters/pkg/conditions"
	"github.com/spencer-p/nscharters/pkg/handlers"
	"github.com/spencer-p/nscharters/pkg/noaa"
	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/trips"
	"github.com/spencer-p/nscharters/pkg/weather"
)

// newLoader wires the upstream clients to the launch table.
func newLoader(env Config, table stations.Table, log *slog.Logger) *conditions.Loader {
	if env.OWMAPIKey == "" {
		log.Warn("OWM_API_KEY is not set; weather will show a placeholder")
	}

	httpClient := &http.Client{Timeout: env.HTTPTimeout}
	tideClient := noaa.NewClient(httpClient, env.NOAAApplication, table[0].Loc())
	weatherClient := weather.NewClient(httpClient, env.OWMAPIKey)

	return conditions.NewLoader(conditions.DefaultConfig(table), tideClient, weatherClient, log)
}

func newRouter(env Config, loader *conditions.Loader, t trips.Table, log *slog.Logger) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(env.Prefix).Subrouter()

	handlers.New(loader, handlers.Options{
		Prefix:   env.Prefix,
		CacheTTL: env.CacheTTL,
		Trips:    t,
		Log:      log,
	}).Register(s)
	return r
}
