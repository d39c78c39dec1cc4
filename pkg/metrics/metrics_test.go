package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusWriter(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	if sw.code() != http.StatusOK {
		t.Errorf("unset status = %d, want 200", sw.code())
	}
	sw.WriteHeader(http.StatusTeapot)
	sw.WriteHeader(http.StatusInternalServerError)
	if sw.code() != http.StatusTeapot {
		t.Errorf("status = %d, want first written 418", sw.code())
	}

	sw = &statusWriter{ResponseWriter: httptest.NewRecorder()}
	sw.Write([]byte("hi"))
	if sw.code() != http.StatusOK {
		t.Errorf("implicit status = %d, want 200", sw.code())
	}
}

func TestLatencyHandler(t *testing.T) {
	before := testutil.CollectAndCount(requestLatency)
	h := LatencyHandler(func(r *http.Request) string { return "/latency-test" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/latency-test", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("got status %d", rec.Code)
	}
	if after := testutil.CollectAndCount(requestLatency); after != before+1 {
		t.Errorf("series count %d -> %d, want one new series", before, after)
	}
}

func TestObserveUpstream(t *testing.T) {
	c := upstreamFetches.WithLabelValues("noaa", OutcomeEmpty)
	before := testutil.ToFloat64(c)
	ObserveUpstream("noaa", OutcomeEmpty)
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %f, want %f", got, before+1)
	}
}
