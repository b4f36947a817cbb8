package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberforge/engine/internal/clock"
	"github.com/emberforge/engine/internal/event"
)

type calendarMonth struct {
	Name   string `yaml:"name"`
	Days   int    `yaml:"days"`
	Season string `yaml:"season"`
}

type calendarFile struct {
	Months []calendarMonth `yaml:"months"`
}

// LoadCalendar loads a custom month table. A missing file yields the
// default four-month calendar.
func LoadCalendar(path string) (clock.CalendarConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return clock.CreateDefaultCalendar(), nil
		}
		return clock.CalendarConfig{}, fmt.Errorf("calendar: read %s: %w", path, err)
	}

	var f calendarFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return clock.CalendarConfig{}, fmt.Errorf("calendar: parse %s: %w", path, err)
	}
	if len(f.Months) == 0 {
		return clock.CalendarConfig{}, fmt.Errorf("calendar: %s defines no months", path)
	}

	cfg := clock.CalendarConfig{Months: make([]clock.MonthConfig, 0, len(f.Months))}
	for i, m := range f.Months {
		if m.Name == "" {
			return clock.CalendarConfig{}, fmt.Errorf("calendar: month %d in %s has no name", i, path)
		}
		if m.Days < 1 {
			return clock.CalendarConfig{}, fmt.Errorf("calendar: month %q has invalid day count %d", m.Name, m.Days)
		}
		season, ok := parseSeason(m.Season)
		if !ok {
			return clock.CalendarConfig{}, fmt.Errorf("calendar: month %q has unknown season %q", m.Name, m.Season)
		}
		cfg.Months = append(cfg.Months, clock.MonthConfig{
			Name:     m.Name,
			DayCount: m.Days,
			Season:   season,
		})
	}
	return cfg, nil
}

func parseSeason(s string) (event.Season, bool) {
	switch s {
	case "spring", "Spring":
		return event.Spring, true
	case "summer", "Summer":
		return event.Summer, true
	case "fall", "Fall", "autumn", "Autumn":
		return event.Fall, true
	case "winter", "Winter":
		return event.Winter, true
	}
	return event.Spring, false
}
