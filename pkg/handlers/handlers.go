package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb/geojson"

	"github.com/spencer-p/nscharters/pkg/cache"
	"github.com/spencer-p/nscharters/pkg/conditions"
	"github.com/spencer-p/nscharters/pkg/metrics"
	"github.com/spencer-p/nscharters/pkg/noaa"
	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/tides"
	"github.com/spencer-p/nscharters/pkg/trips"
	"github.com/spencer-p/nscharters/pkg/visualize"
	"github.com/spencer-p/nscharters/pkg/weather"
)

const (
	koDataEnvKey = "KO_DATA_PATH"

	requestIDHeader = "X-Request-Id"

	contentJSON = "application/json"
	contentText = "text/plain; charset=utf-8"
	contentHTML = "text/html; charset=utf-8"
	contentSVG  = "image/svg+xml"
	contentPNG  = "image/png"
)

// Options configures a Server.
type Options struct {
	// Prefix is the path the router is mounted under.
	Prefix string
	// DataDir holds static/; defaults to $KO_DATA_PATH or ".".
	DataDir  string
	CacheTTL time.Duration
	Trips    trips.Table
	Log      *slog.Logger
}

// Server serves the site and its data API.
type Server struct {
	loader  *conditions.Loader
	trips   trips.Table
	cache   *cache.Timed
	log     *slog.Logger
	prefix  string
	dataDir string
	now     func() time.Time
}

// New builds a Server reading conditions through loader.
func New(loader *conditions.Loader, opts Options) *Server {
	s := &Server{
		loader:  loader,
		trips:   opts.Trips,
		cache:   cache.NewTimed(opts.CacheTTL),
		log:     opts.Log,
		prefix:  opts.Prefix,
		dataDir: opts.DataDir,
		now:     time.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.trips == nil {
		s.trips = trips.Default()
	}
	if s.dataDir == "" {
		s.dataDir = getDataDir()
	}
	if s.prefix == "" {
		s.prefix = "/"
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r *mux.Router) {
	r.Use(s.requestID, metrics.LatencyHandler(routeTemplate))

	r.Handle("/", s.makeServerSideIndex()).Methods(http.MethodGet)
	r.Handle("/gallery", s.makeGallery()).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler())

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Handle("/conditions", s.cached(http.HandlerFunc(s.serveConditions))).Methods(http.MethodGet)
	api.Handle("/tides/{location}", s.cached(http.HandlerFunc(s.serveTides))).Methods(http.MethodGet)
	api.Handle("/tides/{location}/chart.svg", s.cached(http.HandlerFunc(s.serveChartSVG))).Methods(http.MethodGet)
	api.Handle("/tides/{location}/chart.png", s.cached(http.HandlerFunc(s.serveChartPNG))).Methods(http.MethodGet)
	api.Handle("/weather/{location}", s.cached(http.HandlerFunc(s.serveWeather))).Methods(http.MethodGet)
	api.HandleFunc("/locations", s.serveLocations).Methods(http.MethodGet)
	api.HandleFunc("/locations/{location}/focus", s.serveFocus).Methods(http.MethodGet)
	api.HandleFunc("/trips", s.serveTrips).Methods(http.MethodGet)
	api.HandleFunc("/trips/{trip}", s.serveTrip).Methods(http.MethodGet)

	r.PathPrefix("/static/").Handler(http.StripPrefix(s.prefix, http.FileServer(http.Dir(s.dataDir))))
}

func getDataDir() string {
	if dir := os.Getenv(koDataEnvKey); dir != "" {
		return dir
	}
	return "."
}

type requestIDKey struct{}

// requestID tags each request with the caller's X-Request-Id when it is a
// UUID, or a fresh one, and echoes it back.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		s.log.Debug("request", "method", r.Method, "url", r.URL.String(), "request_id", id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID is the ID assigned to the request carrying ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// routeTemplate labels metrics by route rather than by raw path.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// location resolves the {location} route variable, writing a 404 if needed.
func (s *Server) location(w http.ResponseWriter, r *http.Request) (stations.Location, bool) {
	loc, err := s.loader.Stations().Lookup(mux.Vars(r)["location"])
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return stations.Location{}, false
	}
	return loc, true
}

// fail writes a plain text error, logging it when it is the server's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	if code >= 500 {
		s.log.Error("request failed", "code", code, "err", err, "request_id", RequestID(r.Context()))
	}
	w.Header().Set("Content-Type", contentText)
	w.WriteHeader(code)
	fmt.Fprintf(w, "%s\n", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to encode JSON result", "err", err)
	}
}

// noStore marks a response as not to be kept, by the cache below or by the
// browser. Handlers use it when a region shows a placeholder for a failed
// upstream, so the next request tries again.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

// cached serves successful responses from memory for the cache TTL, keyed by
// method and URL. Responses marked with noStore are passed through. This only
// spares upstream quotas; nothing outlives the process.
func (s *Server) cached(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cache based on method and URL, which should encapsulate the query
		key := fmt.Sprintf("%s %s", r.Method, r.URL)

		// serve cache version from memory if possible
		if body, contentType, ok := s.cache.Get(key); ok {
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}

		rec := &recorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == http.StatusOK && w.Header().Get("Cache-Control") != "no-store" {
			s.cache.Set(key, w.Header().Get("Content-Type"), rec.body.Bytes())
		}
	})
}

// recorder duplicates a response onto a buffer for the cache.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (s *Server) serveConditions(w http.ResponseWriter, r *http.Request) {
	board := conditions.NewBoard(s.loader.Stations())
	s.loader.Load(r.Context(), board)
	panels := board.Panels()
	for _, p := range panels {
		if p.Degraded() {
			noStore(w)
			break
		}
	}

	if r.FormValue("o") == "json" {
		s.writeJSON(w, panels)
		return
	}

	w.Header().Set("Content-Type", contentText)
	w.WriteHeader(http.StatusOK)
	for i, p := range panels {
		if i > 0 {
			fmt.Fprintf(w, "\n")
		}
		writePanelText(w, p)
	}
}

func writePanelText(w io.Writer, p conditions.Panel) {
	fmt.Fprintf(w, "%s\n", p.Label)
	if p.Weather != nil {
		fmt.Fprintf(w, "  %s, %s (feels like %s), wind %s\n",
			p.Weather.Description, p.Weather.Temp, p.Weather.FeelsLike, p.Weather.Wind)
	} else {
		fmt.Fprintf(w, "  %s\n", p.WeatherMsg)
	}
	if p.Daylight != nil {
		fmt.Fprintf(w, "  Sunrise %s, sunset %s\n", p.Daylight.Sunrise, p.Daylight.Sunset)
	}
	for _, line := range p.Tides {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if p.TidesMsg != "" {
		fmt.Fprintf(w, "  %s\n", p.TidesMsg)
	}
}

// TidesResponse is the JSON shape of /api/v1/tides/{location}.
type TidesResponse struct {
	Station  stations.Location `json:"station"`
	Next     tides.NextEvents  `json:"next"`
	Upcoming noaa.Predictions  `json:"upcoming"`
	Lines    []string          `json:"lines"`
	Message  string            `json:"message,omitempty"`
}

func (s *Server) serveTides(w http.ResponseWriter, r *http.Request) {
	loc, ok := s.location(w, r)
	if !ok {
		return
	}
	preds, err := s.loader.Events(r.Context(), loc)
	if err != nil {
		s.log.Warn("tides unavailable", "location", loc.Key, "err", err, "request_id", RequestID(r.Context()))
		s.fail(w, r, http.StatusBadGateway, errors.New(conditions.TidesUnavailable))
		return
	}

	now := s.loader.Now()
	n := s.loader.UpcomingEvents()
	resp := TidesResponse{
		Station:  loc,
		Next:     tides.Next(now, preds),
		Upcoming: tides.Upcoming(now, preds, n),
	}
	resp.Lines, resp.Message = tides.Lines(now, preds, n)
	if resp.Lines == nil {
		resp.Lines = []string{}
	}
	s.writeJSON(w, resp)
}

// chartPoints loads the chart window for the route's location, writing the
// error response itself when there is nothing to draw.
func (s *Server) chartPoints(w http.ResponseWriter, r *http.Request) (stations.Location, []visualize.Point, bool) {
	loc, ok := s.location(w, r)
	if !ok {
		return loc, nil, false
	}
	points, err := s.loader.ChartPoints(r.Context(), loc)
	if err != nil {
		s.log.Warn("tide chart unavailable", "location", loc.Key, "err", err, "request_id", RequestID(r.Context()))
		s.fail(w, r, http.StatusBadGateway, errors.New(conditions.ChartUnavailable))
		return loc, nil, false
	}
	if len(points) == 0 {
		s.fail(w, r, http.StatusNotFound, errors.New(conditions.NoChartData))
		return loc, nil, false
	}
	return loc, points, true
}

func (s *Server) serveChartSVG(w http.ResponseWriter, r *http.Request) {
	loc, points, ok := s.chartPoints(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentSVG)
	w.WriteHeader(http.StatusOK)
	if _, err := visualize.Build(points, loc.Label).Encode(w); err != nil {
		s.log.Warn("failed to write chart", "location", loc.Key, "err", err)
	}
}

func (s *Server) serveChartPNG(w http.ResponseWriter, r *http.Request) {
	loc, points, ok := s.chartPoints(w, r)
	if !ok {
		return
	}
	var b bytes.Buffer
	if err := visualize.RenderPNG(&b, points, loc.Label); err != nil {
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("render chart: %w", err))
		return
	}
	w.Header().Set("Content-Type", contentPNG)
	w.WriteHeader(http.StatusOK)
	w.Write(b.Bytes())
}

func (s *Server) serveWeather(w http.ResponseWriter, r *http.Request) {
	loc, ok := s.location(w, r)
	if !ok {
		return
	}
	board := conditions.NewBoard(stations.Table{loc})
	s.loader.LoadWeather(r.Context(), loc, board)
	panel, _ := board.Panel(loc.Key)
	if panel.Degraded() {
		noStore(w)
	}
	s.writeJSON(w, struct {
		Location string          `json:"location"`
		Weather  *weather.Report `json:"weather,omitempty"`
		Message  string          `json:"message,omitempty"`
	}{loc.Key, panel.Weather, panel.WeatherMsg})
}

// LocationsResponse feeds the map: one marker per launch plus the padded
// bounds to fit, as [[south, west], [north, east]].
type LocationsResponse struct {
	Markers *geojson.FeatureCollection `json:"markers"`
	Bounds  [2][2]float64              `json:"bounds"`
}

func (s *Server) serveLocations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, locations(s.loader.Stations()))
}

func (s *Server) serveFocus(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader.Stations().Focus(mux.Vars(r)["location"])
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) serveTrips(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.trips)
}

func (s *Server) serveTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Lookup(mux.Vars(r)["trip"])
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, struct {
		trips.Trip
		HalfDay string `json:"half_day"`
		FullDay string `json:"full_day"`
	}{trip, trip.HalfDay(), trip.FullDay()})
}

// staticPath is a path under the data dir as served by the router.
func (s *Server) staticPath(p string) string {
	return pathJoinPreservePrefix(s.prefix, p)
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}
