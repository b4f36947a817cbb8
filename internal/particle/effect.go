package particle

import "github.com/emberforge/engine/internal/geom"

// RenderLayer selects the draw pass an effect's particles belong to.
type RenderLayer uint8

const (
	LayerBackground RenderLayer = iota
	LayerWorld
	LayerForeground
)

// EmitterConfig holds the sampling ranges a definition emits with.
// For screen-space effects Spread is horizontal coverage in pixels and
// the emission angle jitters only a few degrees; for world-space
// effects Spread is the angular range in degrees around Direction.
type EmitterConfig struct {
	Direction     geom.Vector2D
	Spread        float32
	EmissionRate  float32 // particles per second at intensity 1
	MinSpeed      float32
	MaxSpeed      float32
	MinLife       float32
	MaxLife       float32
	MinSize       float32
	MaxSize       float32
	MinColor      uint32 // RGBA
	MaxColor      uint32
	Gravity       geom.Vector2D
	Wind          geom.Vector2D
	Duration      float32 // seconds, -1 infinite
	BurstCount    int
	BurstInterval float32
}

// EffectDefinition is a named particle effect template.
type EffectDefinition struct {
	Name                string
	Layer               RenderLayer
	Emitter             EmitterConfig
	IntensityMultiplier float32
	ScreenSpace         bool // spawn across the viewport instead of at the instance position
}

func builtinEffects(screenW, screenH float32) []EffectDefinition {
	return []EffectDefinition{
		{
			Name:  "Rain",
			Layer: LayerBackground,
			Emitter: EmitterConfig{
				Spread:       screenW,
				EmissionRate: 300,
				MinSpeed:     400, MaxSpeed: 600,
				MinLife: 1.5, MaxLife: 2.5,
				MinSize: 3, MaxSize: 3.5,
				MinColor: 0x1E3A8AFF, MaxColor: 0x3B82F6FF,
				Gravity:  geom.Vector2D{X: 0, Y: 400},
				Wind:     geom.Vector2D{X: 5, Y: 0},
				Duration: -1,
			},
			IntensityMultiplier: 1.4,
			ScreenSpace:         true,
		},
		{
			Name:  "HeavyRain",
			Layer: LayerBackground,
			Emitter: EmitterConfig{
				Spread:       screenW,
				EmissionRate: 500,
				MinSpeed:     120, MaxSpeed: 220,
				MinLife: 3.5, MaxLife: 6,
				MinSize: 2, MaxSize: 8,
				MinColor: 0x1E3A8AFF, MaxColor: 0x3B82F6FF,
				Gravity:  geom.Vector2D{X: 0, Y: 350},
				Wind:     geom.Vector2D{X: 8, Y: 0},
				Duration: -1,
			},
			IntensityMultiplier: 1.8,
			ScreenSpace:         true,
		},
		{
			Name:  "Snow",
			Layer: LayerBackground,
			Emitter: EmitterConfig{
				Spread:       screenW,
				EmissionRate: 180,
				MinSpeed:     15, MaxSpeed: 50,
				MinLife: 8, MaxLife: 15,
				MinSize: 8, MaxSize: 16,
				MinColor: 0xFFFAFAFF, MaxColor: 0xE6E6EAFF,
				Gravity:  geom.Vector2D{X: -2, Y: 60},
				Wind:     geom.Vector2D{X: 3, Y: 0.5},
				Duration: -1,
			},
			IntensityMultiplier: 1.1,
			ScreenSpace:         true,
		},
		{
			Name:  "HeavySnow",
			Layer: LayerBackground,
			Emitter: EmitterConfig{
				Spread:       screenW,
				EmissionRate: 350,
				MinSpeed:     25, MaxSpeed: 80,
				MinLife: 5, MaxLife: 10,
				MinSize: 6, MaxSize: 14,
				MinColor: 0xFFFAFAFF, MaxColor: 0xE6E6EAFF,
				Gravity:  geom.Vector2D{X: -5, Y: 80},
				Wind:     geom.Vector2D{X: 8, Y: 2},
				Duration: -1,
			},
			IntensityMultiplier: 1.6,
			ScreenSpace:         true,
		},
		{
			Name:  "Fog",
			Layer: LayerForeground,
			Emitter: EmitterConfig{
				Spread:       screenW,
				EmissionRate: 38,
				MinSpeed:     2, MaxSpeed: 15,
				MinLife: 8, MaxLife: 18,
				MinSize: 25, MaxSize: 50,
				MinColor: 0xC8C8C870, MaxColor: 0xE0E0E040,
				Gravity:  geom.Vector2D{X: 3, Y: -2},
				Wind:     geom.Vector2D{X: 8, Y: 1},
				Duration: -1,
			},
			IntensityMultiplier: 0.9,
			ScreenSpace:         true,
		},
		{
			Name:  "Cloudy",
			Layer: LayerForeground,
			Emitter: EmitterConfig{
				Direction:    geom.Vector2D{X: 1, Y: 0},
				Spread:       screenW,
				EmissionRate: 1.2,
				MinSpeed:     25, MaxSpeed: 35,
				MinLife: 20, MaxLife: 35,
				MinSize: 100, MaxSize: 200,
				MinColor: 0xD0D0D860, MaxColor: 0xF0F0F430,
				Wind:     geom.Vector2D{X: 25, Y: 0},
				Duration: -1,
			},
			IntensityMultiplier: 1.2,
			ScreenSpace:         true,
		},
		{
			Name:  "Fire",
			Layer: LayerWorld,
			Emitter: EmitterConfig{
				Direction:    geom.Vector2D{X: 0, Y: -1},
				Spread:       60,
				EmissionRate: 100,
				MinSpeed:     20, MaxSpeed: 110,
				MinLife: 0.2, MaxLife: 1.8,
				MinSize: 4, MaxSize: 14,
				MinColor: 0xFFD700FF, MaxColor: 0xFF450088,
				Gravity:       geom.Vector2D{X: 0, Y: -45},
				Wind:          geom.Vector2D{X: 25, Y: 0},
				Duration:      -1,
				BurstCount:    15,
				BurstInterval: 0.08,
			},
			IntensityMultiplier: 1.2,
		},
		{
			Name:  "Smoke",
			Layer: LayerWorld,
			Emitter: EmitterConfig{
				Direction:    geom.Vector2D{X: 0, Y: -1},
				Spread:       75,
				EmissionRate: 75,
				MinSpeed:     15, MaxSpeed: 60,
				MinLife: 2, MaxLife: 6,
				MinSize: 5, MaxSize: 20,
				MinColor: 0x333333DD, MaxColor: 0x80808044,
				Gravity:       geom.Vector2D{X: 0, Y: -30},
				Wind:          geom.Vector2D{X: 30, Y: 0},
				Duration:      -1,
				BurstCount:    5,
				BurstInterval: 0.25,
			},
			IntensityMultiplier: 1.2,
		},
		{
			Name:  "Sparks",
			Layer: LayerWorld,
			Emitter: EmitterConfig{
				Direction:    geom.Vector2D{X: 0, Y: -1},
				Spread:       180,
				EmissionRate: 100,
				MinSpeed:     80, MaxSpeed: 200,
				MinLife: 0.3, MaxLife: 1.2,
				MinSize: 1, MaxSize: 3,
				MinColor: 0xFFFF00FF, MaxColor: 0xFF8C00FF,
				Gravity:    geom.Vector2D{X: 0, Y: 120},
				Wind:       geom.Vector2D{X: 5, Y: 0},
				Duration:   2,
				BurstCount: 38,
			},
			IntensityMultiplier: 1,
		},
		{
			Name:  "Magic",
			Layer: LayerWorld,
			Emitter: EmitterConfig{
				Direction:    geom.Vector2D{X: 0, Y: -1},
				Spread:       180,
				EmissionRate: 80,
				MinSpeed:     10, MaxSpeed: 60,
				MinLife: 0.8, MaxLife: 2,
				MinSize: 2, MaxSize: 6,
				MinColor: 0x9333EAFF, MaxColor: 0xE879F9AA,
				Gravity:  geom.Vector2D{X: 0, Y: -20},
				Duration: -1,
			},
			IntensityMultiplier: 1,
		},
	}
}

// interpolateColor lerps each RGBA channel independently.
func interpolateColor(min, max uint32, t float32) uint32 {
	lerp := func(a, b uint32) uint32 {
		return uint32(float32(a) + (float32(b)-float32(a))*t)
	}
	r := lerp(min>>24&0xFF, max>>24&0xFF)
	g := lerp(min>>16&0xFF, max>>16&0xFF)
	b := lerp(min>>8&0xFF, max>>8&0xFF)
	a := lerp(min&0xFF, max&0xFF)
	return r<<24 | g<<16 | b<<8 | a
}
