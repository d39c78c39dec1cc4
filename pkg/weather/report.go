package weather

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Placeholder stands in for any value the provider did not send.
const Placeholder = "—"

// Messages shown in the weather region instead of a report.
const (
	Unavailable = "Weather unavailable right now."
	MissingKey  = "Add your OpenWeatherMap API key to show live weather."
)

const iconURLFmt = "https://openweathermap.org/img/wn/%s@2x.png"

// Report is an Observation formatted for display. Every field is filled in,
// with Placeholder where data was missing.
type Report struct {
	Temp        string `json:"temp"`
	FeelsLike   string `json:"feels_like"`
	Wind        string `json:"wind"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url,omitempty"`
	IconAlt     string `json:"icon_alt,omitempty"`
}

// NewReport formats obs field by field.
func NewReport(obs Observation) Report {
	desc := capitalize(strings.TrimSpace(obs.Description))
	r := Report{
		Temp:        formatOr(obs.Temp, "%.0f°F"),
		FeelsLike:   formatOr(obs.FeelsLike, "%.0f°F"),
		Wind:        formatOr(obs.WindSpeed, "%.0f mph"),
		Description: desc,
	}
	if r.Description == "" {
		r.Description = Placeholder
	}
	if obs.Icon != "" {
		r.IconURL = fmt.Sprintf(iconURLFmt, obs.Icon)
		r.IconAlt = desc
		if r.IconAlt == "" {
			r.IconAlt = "Weather icon"
		}
	}
	return r
}

func formatOr(v *float64, format string) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}
	// Round half away from zero rather than to even, so 72.5 reads 73°F.
	r := math.Round(*v)
	if r == 0 {
		// -0 compares equal to 0; store a positive zero so it prints "0".
		r = 0
	}
	return fmt.Sprintf(format, r)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
