package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "nscharters",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	upstreamFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "upstream_fetches_total",
			Subsystem: "nscharters",
			Help:      "Fetches from upstream data providers by outcome.",
		},
		[]string{"provider", "outcome"},
	)
)

// Upstream fetch outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeError      = "error"
	OutcomeMissingKey = "missing_key"
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		upstreamFetches,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveUpstream counts one fetch from provider ("noaa", "owm").
func ObserveUpstream(provider, outcome string) {
	upstreamFetches.With(prometheus.Labels{
		"provider": provider,
		"outcome":  outcome,
	}).Inc()
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// LatencyHandler observes the latency of every request. pathOf maps a request
// to a low-cardinality path label, typically the matched route template.
func LatencyHandler(pathOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := time.Now()
			verb := r.Method
			sw := &statusWriter{ResponseWriter: w}

			// Defer metric observing. Any panics in next are reported as 500
			// errors and then re-thrown.
			defer func() {
				path := pathOf(r)
				if err := recover(); err != nil {
					ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
					panic(err)
				}
				ObserveRequestLatency(verb, path, strconv.Itoa(sw.code()), time.Since(t).Seconds())
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		// Unset, will be set to 200 by stdlib.
		return http.StatusOK
	}
	return w.status
}
