// Package clock implements the game clock: real-to-game time conversion,
// the calendar, seasonal weather rolls, and time-event dispatch on
// boundary crossings.
package clock

import (
	"math/rand"

	"github.com/emberforge/engine/internal/event"
)

// MonthConfig is one calendar month.
type MonthConfig struct {
	Name     string
	DayCount int
	Season   event.Season
}

// CalendarConfig is the ordered month list a game year cycles through.
type CalendarConfig struct {
	Months []MonthConfig
}

// CreateDefaultCalendar returns the stock four-month year.
func CreateDefaultCalendar() CalendarConfig {
	return CalendarConfig{
		Months: []MonthConfig{
			{Name: "Bloomtide", DayCount: 30, Season: event.Spring},
			{Name: "Sunpeak", DayCount: 30, Season: event.Summer},
			{Name: "Harvestmoon", DayCount: 30, Season: event.Fall},
			{Name: "Frosthold", DayCount: 30, Season: event.Winter},
		},
	}
}

// TotalDaysInYear sums the month day counts.
func (c CalendarConfig) TotalDaysInYear() int {
	total := 0
	for _, m := range c.Months {
		total += m.DayCount
	}
	return total
}

// WeatherProbs is the per-season weather distribution. The seven weights
// must sum to 1.
type WeatherProbs struct {
	Clear  float64
	Cloudy float64
	Rainy  float64
	Stormy float64
	Foggy  float64
	Snowy  float64
	Windy  float64
}

// Sum returns the total weight, 1.0 for a valid distribution.
func (p WeatherProbs) Sum() float64 {
	return p.Clear + p.Cloudy + p.Rainy + p.Stormy + p.Foggy + p.Snowy + p.Windy
}

// SeasonConfig carries daylight, temperature, and weather weights for
// one season.
type SeasonConfig struct {
	Season         event.Season
	SunriseHour    float64
	SunsetHour     float64
	MinTemperature float64 // Fahrenheit
	MaxTemperature float64
	WeatherProbs   WeatherProbs
}

// DefaultSeasonConfig returns the stock tuning for a season.
func DefaultSeasonConfig(s event.Season) SeasonConfig {
	switch s {
	case event.Summer:
		return SeasonConfig{
			Season:         event.Summer,
			SunriseHour:    5.0,
			SunsetHour:     21.0,
			MinTemperature: 70,
			MaxTemperature: 95,
			WeatherProbs:   WeatherProbs{Clear: 0.50, Cloudy: 0.15, Rainy: 0.10, Stormy: 0.10, Foggy: 0.02, Snowy: 0, Windy: 0.13},
		}
	case event.Fall:
		return SeasonConfig{
			Season:         event.Fall,
			SunriseHour:    6.5,
			SunsetHour:     18.0,
			MinTemperature: 40,
			MaxTemperature: 65,
			WeatherProbs:   WeatherProbs{Clear: 0.30, Cloudy: 0.20, Rainy: 0.20, Stormy: 0.05, Foggy: 0.10, Snowy: 0, Windy: 0.15},
		}
	case event.Winter:
		return SeasonConfig{
			Season:         event.Winter,
			SunriseHour:    7.5,
			SunsetHour:     17.0,
			MinTemperature: 20,
			MaxTemperature: 45,
			WeatherProbs:   WeatherProbs{Clear: 0.30, Cloudy: 0.20, Rainy: 0.05, Stormy: 0.02, Foggy: 0.08, Snowy: 0.25, Windy: 0.10},
		}
	default:
		return SeasonConfig{
			Season:         event.Spring,
			SunriseHour:    6.0,
			SunsetHour:     19.0,
			MinTemperature: 45,
			MaxTemperature: 70,
			WeatherProbs:   WeatherProbs{Clear: 0.35, Cloudy: 0.15, Rainy: 0.25, Stormy: 0.05, Foggy: 0.05, Snowy: 0, Windy: 0.15},
		}
	}
}

// Roll samples a weather type from the distribution.
func (c SeasonConfig) Roll(rng *rand.Rand) event.WeatherType {
	var draw float64
	if rng != nil {
		draw = rng.Float64()
	} else {
		draw = rand.Float64()
	}
	p := c.WeatherProbs
	cumulative := 0.0
	for _, step := range []struct {
		w float64
		t event.WeatherType
	}{
		{p.Clear, event.WeatherClear},
		{p.Cloudy, event.WeatherCloudy},
		{p.Rainy, event.WeatherRainy},
		{p.Stormy, event.WeatherStormy},
		{p.Foggy, event.WeatherFoggy},
		{p.Snowy, event.WeatherSnowy},
		{p.Windy, event.WeatherWindy},
	} {
		cumulative += step.w
		if draw < cumulative {
			return step.t
		}
	}
	return event.WeatherClear
}
