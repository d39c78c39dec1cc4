package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testKey = "0123456789abcdef"

func TestCurrent(t *testing.T) {
	table := []struct {
		name    string
		status  int
		body    string
		want    Report
		wantErr func(error) bool
	}{{
		name:   "full payload",
		status: http.StatusOK,
		body: `{"main":{"temp":84.6,"feels_like":91.2},"wind":{"speed":8.5},
			"weather":[{"description":"scattered clouds","icon":"03d"}]}`,
		want: Report{
			Temp:        "85°F",
			FeelsLike:   "91°F",
			Wind:        "9 mph",
			Description: "Scattered clouds",
			IconURL:     "https://openweathermap.org/img/wn/03d@2x.png",
			IconAlt:     "Scattered clouds",
		},
	}, {
		name:   "missing fields degrade one by one",
		status: http.StatusOK,
		body:   `{"main":{"temp":70},"weather":[]}`,
		want: Report{
			Temp:        "70°F",
			FeelsLike:   Placeholder,
			Wind:        Placeholder,
			Description: Placeholder,
		},
	}, {
		name:   "unauthorized",
		status: http.StatusUnauthorized,
		body:   `{"cod":401,"message":"Invalid API key"}`,
		wantErr: func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusUnauthorized
		},
	}, {
		name:   "malformed",
		status: http.StatusOK,
		body:   `{"main":`,
		wantErr: func(err error) bool {
			return err != nil
		},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("lat") != "28.8559" || q.Get("lon") != "-82.6413" {
					t.Errorf("unexpected coordinates %s", r.URL.RawQuery)
				}
				if q.Get("units") != "imperial" || q.Get("appid") != testKey {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			c := NewClient(srv.Client(), testKey)
			c.BaseURL = srv.URL
			obs, err := c.Current(context.Background(), 28.8559, -82.6413)
			if tc.wantErr != nil {
				if !tc.wantErr(err) {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, NewReport(obs)); diff != "" {
				t.Errorf("report (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestCurrentMissingKey(t *testing.T) {
	for _, key := range []string{"", "short"} {
		c := NewClient(http.DefaultClient, key)
		c.BaseURL = "http://127.0.0.1:0/never-called"
		if _, err := c.Current(context.Background(), 0, 0); !errors.Is(err, ErrMissingKey) {
			t.Errorf("key %q: got %v, want ErrMissingKey", key, err)
		}
	}
}

func TestNewReportEmpty(t *testing.T) {
	want := Report{
		Temp:        Placeholder,
		FeelsLike:   Placeholder,
		Wind:        Placeholder,
		Description: Placeholder,
	}
	if diff := cmp.Diff(want, NewReport(Observation{})); diff != "" {
		t.Errorf("report (-want,+got):\n%s", diff)
	}
}

func TestNewReportRounding(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	table := []struct {
		temp float64
		want string
	}{
		{72.5, "73°F"},
		{-0.4, "0°F"},
		{-0.5, "-1°F"},
		{0, "0°F"},
	}
	for _, tc := range table {
		if got := NewReport(Observation{Temp: f(tc.temp)}).Temp; got != tc.want {
			t.Errorf("temp %v: got %q, want %q", tc.temp, got, tc.want)
		}
	}
}
