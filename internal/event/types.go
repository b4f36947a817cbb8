// Package event implements the engine's dispatch fabric: a registry of
// named game events indexed by type, typed and per-name handlers,
// double-buffered deferred queues, and per-type batch updates scheduled
// onto the shared worker pool.
package event

import "strings"

// TypeID is the closed set of event categories the manager indexes by.
type TypeID uint8

const (
	TypeWeather TypeID = iota
	TypeSceneChange
	TypeNPCSpawn
	TypeParticleEffect
	TypeResourceChange
	TypeWorld
	TypeCamera
	TypeCombat
	TypeCollision
	TypeHarvest
	TypeTime
	TypeCustom
	typeCount
)

func (t TypeID) String() string {
	switch t {
	case TypeWeather:
		return "Weather"
	case TypeSceneChange:
		return "SceneChange"
	case TypeNPCSpawn:
		return "NPCSpawn"
	case TypeParticleEffect:
		return "ParticleEffect"
	case TypeResourceChange:
		return "ResourceChange"
	case TypeWorld:
		return "World"
	case TypeCamera:
		return "Camera"
	case TypeCombat:
		return "Combat"
	case TypeCollision:
		return "Collision"
	case TypeHarvest:
		return "Harvest"
	case TypeTime:
		return "Time"
	case TypeCustom:
		return "Custom"
	}
	return "Unknown"
}

// ParseTypeID is case-insensitive; unknown names map to TypeCustom.
func ParseTypeID(s string) TypeID {
	switch strings.ToLower(s) {
	case "weather":
		return TypeWeather
	case "scenechange":
		return TypeSceneChange
	case "npcspawn":
		return TypeNPCSpawn
	case "particleeffect":
		return TypeParticleEffect
	case "resourcechange":
		return TypeResourceChange
	case "world":
		return TypeWorld
	case "camera":
		return TypeCamera
	case "combat":
		return TypeCombat
	case "collision":
		return TypeCollision
	case "harvest":
		return TypeHarvest
	case "time":
		return TypeTime
	}
	return TypeCustom
}

// DispatchMode selects synchronous handler fan-out versus the deferred
// handler-call queue drained by Manager.Update.
type DispatchMode uint8

const (
	Deferred DispatchMode = iota
	Immediate
)

// WeatherType enumerates the weather states the engine understands.
type WeatherType uint8

const (
	WeatherClear WeatherType = iota
	WeatherCloudy
	WeatherRainy
	WeatherStormy
	WeatherFoggy
	WeatherSnowy
	WeatherWindy
	WeatherCustom
)

func (w WeatherType) String() string {
	switch w {
	case WeatherClear:
		return "Clear"
	case WeatherCloudy:
		return "Cloudy"
	case WeatherRainy:
		return "Rainy"
	case WeatherStormy:
		return "Stormy"
	case WeatherFoggy:
		return "Foggy"
	case WeatherSnowy:
		return "Snowy"
	case WeatherWindy:
		return "Windy"
	}
	return "Custom"
}

// ParseWeatherType is case-insensitive; unknown strings map to
// WeatherCustom.
func ParseWeatherType(s string) WeatherType {
	switch strings.ToLower(s) {
	case "clear":
		return WeatherClear
	case "cloudy":
		return WeatherCloudy
	case "rainy":
		return WeatherRainy
	case "stormy":
		return WeatherStormy
	case "foggy":
		return WeatherFoggy
	case "snowy":
		return WeatherSnowy
	case "windy":
		return WeatherWindy
	}
	return WeatherCustom
}

// TransitionType is the visual style of a scene change.
type TransitionType uint8

const (
	TransitionFade TransitionType = iota
	TransitionDissolve
	TransitionWipe
	TransitionSlide
	TransitionInstant
	TransitionCustom
)

func (t TransitionType) String() string {
	switch t {
	case TransitionFade:
		return "Fade"
	case TransitionDissolve:
		return "Dissolve"
	case TransitionWipe:
		return "Wipe"
	case TransitionSlide:
		return "Slide"
	case TransitionInstant:
		return "Instant"
	}
	return "Custom"
}

func ParseTransitionType(s string) TransitionType {
	switch strings.ToLower(s) {
	case "fade":
		return TransitionFade
	case "dissolve":
		return TransitionDissolve
	case "wipe":
		return TransitionWipe
	case "slide":
		return TransitionSlide
	case "instant":
		return TransitionInstant
	}
	return TransitionCustom
}

// Season of the game calendar.
type Season uint8

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	case Winter:
		return "Winter"
	}
	return "Unknown"
}

// TimePeriod is a named interval of the game day used to tint the screen
// and drive ambient effects.
type TimePeriod uint8

const (
	Morning TimePeriod = iota // 5-8
	Day                       // 8-17
	Evening                   // 17-21
	Night                     // 21-5
)

func (p TimePeriod) String() string {
	switch p {
	case Morning:
		return "Morning"
	case Day:
		return "Day"
	case Evening:
		return "Evening"
	case Night:
		return "Night"
	}
	return "Unknown"
}

// RGBA is a color used in event payloads (screen tints, transition
// effects).
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// PeriodTint is the canonical screen tint for each time period.
func PeriodTint(p TimePeriod) RGBA {
	switch p {
	case Morning:
		return RGBA{255, 140, 80, 30}
	case Day:
		return RGBA{255, 255, 200, 8}
	case Evening:
		return RGBA{255, 80, 40, 40}
	default:
		return RGBA{20, 20, 60, 90}
	}
}

// Priority bands for events inside a batch. Higher runs first.
const (
	PriorityCritical = 1000
	PriorityHigh     = 800
	PriorityNormal   = 500
	PriorityLow      = 200
	PriorityDeferred = 0
)
