package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// WeatherUnavailableText is shown when the provider answered without current conditions.
	WeatherUnavailableText = "⚠️ Weather data unavailable."
	// WeatherErrorText is shown for any other lookup failure.
	WeatherErrorText = "❌ Error fetching weather."
)

// Weather is the subset of current conditions the planner displays.
type Weather struct {
	City      string  `json:"city"`
	Condition string  `json:"condition"`
	TempC     float64 `json:"temp_c"`

	// WholeDegrees is set when the provider sent TempC as an integer literal.
	// Such readings print without a decimal ("31", not "31.0").
	WholeDegrees bool `json:"whole_degrees,omitempty"`
}

// WeatherReport formats a lookup outcome as the single line shown to the user.
func WeatherReport(city string, w *Weather, err error) string {
	switch {
	case errors.Is(err, ErrWeatherUnavailable):
		return WeatherUnavailableText
	case err != nil || w == nil:
		return WeatherErrorText
	}
	return fmt.Sprintf("🌤 **Current weather in %s:** %s, %s°C", city, w.Condition, formatCelsius(w.TempC, w.WholeDegrees))
}

// formatCelsius prints integer readings as is and keeps one decimal for
// fractional readings that happen to be whole ("21.0").
func formatCelsius(v float64, whole bool) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !whole && !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
