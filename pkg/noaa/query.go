package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spencer-p/nscharters/pkg/timetricks"
)

const (
	NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

	defaultApplication = "NSCharters"
	maxErrorBody       = 512
)

// StatusError is returned when NOAA answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("noaa: status %d: %s", e.Code, e.Body)
}

// Client fetches predictions from the CO-OPS data getter.
type Client struct {
	HTTP        *http.Client
	BaseURL     string
	Application string
	// Location is the zone NOAA's lst_ldt wall times are interpreted in.
	// Defaults to time.Local.
	Location *time.Location
}

// NewClient builds a client for the production endpoint.
func NewClient(httpClient *http.Client, application string, loc *time.Location) *Client {
	return &Client{
		HTTP:        httpClient,
		BaseURL:     NOAA_URL,
		Application: application,
		Location:    loc,
	}
}

// GetPredictions fetches the predictions described by q. An empty result is
// not an error; callers decide what "no data" means for them.
func (c *Client) GetPredictions(ctx context.Context, q *PredictionQuery) (Predictions, error) {
	var result NOAAResult

	// Build request URL first
	addr, err := c.url(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, err
	}

	// Make the request to NOAA
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("noaa request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode noaa response: %w", err)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	for i := range result.Predictions {
		p := &result.Predictions[i]
		p.Time = Time(timetricks.Rezone(p.T(), loc))
	}
	return result.Predictions, nil
}

// IsNoData reports whether err is NOAA saying it has nothing for the window,
// as opposed to a transport or decoding failure.
func IsNoData(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) url(q *PredictionQuery) (*url.URL, error) {
	base := c.BaseURL
	if base == "" {
		base = NOAA_URL
	}
	addr, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = c.build(q).Encode()
	return addr, nil
}

func (c *Client) build(q *PredictionQuery) url.Values {
	app := c.Application
	if app == "" {
		app = defaultApplication
	}
	interval := q.Interval
	if interval == "" {
		interval = IntervalHiLo
	}
	vals := make(url.Values)
	vals.Add("begin_date", timetricks.QueryDate(q.Start))
	vals.Add("end_date", timetricks.QueryDate(q.End()))
	vals.Add("station", string(q.Station))
	vals.Add("product", "predictions")
	vals.Add("application", app)
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "lst_ldt")
	vals.Add("interval", interval)
	vals.Add("units", "english")
	vals.Add("format", "json")
	return vals
}
