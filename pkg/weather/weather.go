// Package weather fetches current conditions from OpenWeatherMap and formats
// them for the conditions panel.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	OWM_URL = "https://api.openweathermap.org/data/2.5/weather"

	minKeyLength = 10
	maxErrorBody = 512
)

// ErrMissingKey is returned before any request is made when no plausible API
// key is configured.
var ErrMissingKey = errors.New("weather: missing OpenWeatherMap API key")

// StatusError is returned when OpenWeatherMap answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather: status %d: %s", e.Code, e.Body)
}

// Observation is the subset of the current weather payload the site shows.
// Numeric fields are nil when the provider left them out.
type Observation struct {
	Temp        *float64 `json:"temp"`
	FeelsLike   *float64 `json:"feels_like"`
	WindSpeed   *float64 `json:"wind_speed"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

// payload mirrors the parts of the OpenWeatherMap response we read.
type payload struct {
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Client requests current conditions by coordinates.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	// Units is passed through to the provider; "imperial" unless set.
	Units string
}

func NewClient(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		HTTP:    httpClient,
		BaseURL: OWM_URL,
		APIKey:  apiKey,
		Units:   "imperial",
	}
}

// Current fetches the current observation at lat, lon.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Observation, error) {
	if len(c.APIKey) < minKeyLength {
		return Observation{}, ErrMissingKey
	}

	addr, err := c.url(lat, lon)
	if err != nil {
		return Observation{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return Observation{}, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Observation{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Observation{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Observation{}, fmt.Errorf("decode weather response: %w", err)
	}

	obs := Observation{
		Temp:      p.Main.Temp,
		FeelsLike: p.Main.FeelsLike,
		WindSpeed: p.Wind.Speed,
	}
	if len(p.Weather) > 0 {
		obs.Description = p.Weather[0].Description
		obs.Icon = p.Weather[0].Icon
	}
	return obs, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) url(lat, lon float64) (*url.URL, error) {
	base := c.BaseURL
	if base == "" {
		base = OWM_URL
	}
	addr, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	units := c.Units
	if units == "" {
		units = "imperial"
	}
	vals := make(url.Values)
	vals.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	vals.Add("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	vals.Add("units", units)
	vals.Add("appid", c.APIKey)
	addr.RawQuery = vals.Encode()
	return addr, nil
}
