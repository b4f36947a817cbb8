package event

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/emberforge/engine/internal/geom"
)

// WeatherParams describes the look and feel of a weather state.
type WeatherParams struct {
	Intensity      float32 // 0..1
	Visibility     float32 // 0 (none) .. 1 (full)
	TransitionTime float32 // seconds to blend into this weather
	WindSpeed      float32
	WindDirection  float32 // degrees
	ParticleEffect string  // particle effect name, "" for none
	SoundEffect    string  // ambient sound id, "" for none
	Tint           RGBA
}

// DefaultWeatherParams returns sensible visuals for a weather type.
func DefaultWeatherParams(t WeatherType) WeatherParams {
	p := WeatherParams{Intensity: 1, Visibility: 1, TransitionTime: 5, Tint: RGBA{255, 255, 255, 0}}
	switch t {
	case WeatherRainy:
		p.ParticleEffect = "Rain"
		p.Visibility = 0.8
		p.WindSpeed = 5
	case WeatherStormy:
		p.ParticleEffect = "HeavyRain"
		p.Visibility = 0.6
		p.WindSpeed = 15
		p.Tint = RGBA{140, 140, 160, 40}
	case WeatherSnowy:
		p.ParticleEffect = "Snow"
		p.Visibility = 0.7
		p.WindSpeed = 3
	case WeatherFoggy:
		p.ParticleEffect = "Fog"
		p.Visibility = 0.4
		p.Tint = RGBA{200, 200, 200, 60}
	case WeatherCloudy:
		p.ParticleEffect = "Cloudy"
		p.Visibility = 0.9
	case WeatherWindy:
		p.WindSpeed = 25
	}
	return p
}

// WeatherEvent transitions the world into a weather state when its
// conditions pass. Conditions may restrict time of day, season, a world
// region, or apply a random chance per evaluation.
type WeatherEvent struct {
	Base
	weatherType WeatherType
	customType  string
	params      WeatherParams

	// optional predicates
	startHour  float32 // -1 = unrestricted
	endHour    float32
	season     Season
	hasSeason  bool
	region     geom.Rect
	hasRegion  bool
	chance     float32 // 0 = no random gate
	conditions []func() bool

	// transition state driven by Update
	inTransition       bool
	transitionProgress float32

	// hour source for the time-of-day window, injected by the owner
	hourFn func() float32
	// season source for the season predicate
	seasonFn func() Season
	// position source for the region predicate
	posFn func() geom.Vector2D

	executed int // executions, for introspection and tests
}

// NewWeatherEvent creates an inactive-condition-free weather event.
func NewWeatherEvent(name string, t WeatherType) *WeatherEvent {
	return &WeatherEvent{
		Base:        NewBase(name, TypeWeather),
		weatherType: t,
		params:      DefaultWeatherParams(t),
		startHour:   -1,
		endHour:     -1,
	}
}

func (e *WeatherEvent) WeatherType() WeatherType { return e.weatherType }

// WeatherTypeString returns the custom string for WeatherCustom events.
func (e *WeatherEvent) WeatherTypeString() string {
	if e.weatherType == WeatherCustom && e.customType != "" {
		return e.customType
	}
	return e.weatherType.String()
}

func (e *WeatherEvent) SetWeatherType(t WeatherType) {
	e.weatherType = t
	e.params = DefaultWeatherParams(t)
}

// SetCustomWeatherType records a custom weather name; parsing known names
// falls through to the matching built-in type.
func (e *WeatherEvent) SetCustomWeatherType(name string) {
	if t := ParseWeatherType(name); t != WeatherCustom {
		e.SetWeatherType(t)
		return
	}
	e.weatherType = WeatherCustom
	e.customType = name
}

func (e *WeatherEvent) Params() WeatherParams          { return e.params }
func (e *WeatherEvent) SetParams(p WeatherParams)      { e.params = p }
func (e *WeatherEvent) SetTimeOfDay(start, end float32) {
	e.startHour, e.endHour = start, end
}

func (e *WeatherEvent) SetSeason(s Season) {
	e.season = s
	e.hasSeason = true
}

func (e *WeatherEvent) SetBoundingArea(r geom.Rect) {
	e.region = r
	e.hasRegion = true
}

// AddRandomChanceCondition gates execution on a uniform draw each check.
func (e *WeatherEvent) AddRandomChanceCondition(probability float32) {
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	e.chance = probability
}

// AddCondition registers an arbitrary predicate; all must pass.
func (e *WeatherEvent) AddCondition(fn func() bool) {
	e.conditions = append(e.conditions, fn)
}

// SetHourSource injects the clock used by the time-of-day window.
func (e *WeatherEvent) SetHourSource(fn func() float32) { e.hourFn = fn }

// SetSeasonSource injects the calendar used by the season predicate.
func (e *WeatherEvent) SetSeasonSource(fn func() Season) { e.seasonFn = fn }

// SetPositionSource injects the position used by the region predicate.
func (e *WeatherEvent) SetPositionSource(fn func() geom.Vector2D) { e.posFn = fn }

func (e *WeatherEvent) CheckConditions() bool {
	if e.startHour >= 0 && e.endHour >= 0 {
		if e.hourFn == nil {
			return false
		}
		h := e.hourFn()
		if e.startHour <= e.endHour {
			if h < e.startHour || h > e.endHour {
				return false
			}
		} else if h < e.startHour && h > e.endHour { // window wraps midnight
			return false
		}
	}
	if e.hasSeason {
		if e.seasonFn == nil || e.seasonFn() != e.season {
			return false
		}
	}
	if e.hasRegion {
		if e.posFn == nil || !e.region.Contains(e.posFn()) {
			return false
		}
	}
	for _, cond := range e.conditions {
		if !cond() {
			return false
		}
	}
	if e.chance > 0 && rand.Float32() > e.chance {
		return false
	}
	return true
}

// Update advances the weather transition once execution started it.
func (e *WeatherEvent) Update() {
	if !e.inTransition {
		return
	}
	if e.params.TransitionTime <= 0 {
		e.transitionProgress = 1
	} else {
		e.transitionProgress += 1.0 / (e.params.TransitionTime * 60)
	}
	if e.transitionProgress >= 1 {
		e.transitionProgress = 1
		e.inTransition = false
	}
}

func (e *WeatherEvent) Execute() {
	e.inTransition = true
	e.transitionProgress = 0
	e.executed++
	e.MarkTriggered()
}

func (e *WeatherEvent) Reset() {
	e.Base.Reset()
	e.inTransition = false
	e.transitionProgress = 0
}

func (e *WeatherEvent) InTransition() bool           { return e.inTransition }
func (e *WeatherEvent) TransitionProgress() float32  { return e.transitionProgress }
func (e *WeatherEvent) ExecutionCount() int          { return e.executed }

// OnMessage understands bare "start"/"stop" and "CHANGE:<type>:<transition>",
// the broadcast the ChangeWeather helper emits when no typed handler is
// registered.
func (e *WeatherEvent) OnMessage(msg string) {
	switch {
	case strings.HasPrefix(msg, "CHANGE:"):
		parts := strings.SplitN(msg, ":", 3)
		if len(parts) >= 2 {
			e.SetCustomWeatherType(parts[1])
		}
		if len(parts) == 3 {
			if t, err := strconv.ParseFloat(parts[2], 32); err == nil && t >= 0 {
				e.params.TransitionTime = float32(t)
			}
		}
		e.Execute()
	case msg == "start":
		e.Execute()
	case msg == "stop":
		e.inTransition = false
	}
}

// Describe is used in debug logs.
func (e *WeatherEvent) Describe() string {
	return fmt.Sprintf("weather %q type=%s intensity=%.2f", e.Name(), e.WeatherTypeString(), e.params.Intensity)
}
