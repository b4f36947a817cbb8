package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberforge/engine/internal/geom"
	"github.com/emberforge/engine/internal/particle"
)

// EffectDef is one custom particle effect definition as authored in
// YAML. Colors are 32-bit RGBA.
type EffectDef struct {
	Name                string  `yaml:"name"`
	Layer               string  `yaml:"layer"` // background, world, foreground
	EmissionRate        float32 `yaml:"emission_rate"`
	DirectionX          float32 `yaml:"direction_x"`
	DirectionY          float32 `yaml:"direction_y"`
	Spread              float32 `yaml:"spread"`
	MinSpeed            float32 `yaml:"min_speed"`
	MaxSpeed            float32 `yaml:"max_speed"`
	MinLife             float32 `yaml:"min_life"`
	MaxLife             float32 `yaml:"max_life"`
	MinSize             float32 `yaml:"min_size"`
	MaxSize             float32 `yaml:"max_size"`
	MinColor            uint32  `yaml:"min_color"`
	MaxColor            uint32  `yaml:"max_color"`
	GravityX            float32 `yaml:"gravity_x"`
	GravityY            float32 `yaml:"gravity_y"`
	WindX               float32 `yaml:"wind_x"`
	WindY               float32 `yaml:"wind_y"`
	Duration            float32 `yaml:"duration"` // seconds, -1 infinite
	BurstCount          int     `yaml:"burst_count"`
	BurstInterval       float32 `yaml:"burst_interval"`
	IntensityMultiplier float32 `yaml:"intensity_multiplier"`
	ScreenSpace         bool    `yaml:"screen_space"`
}

type effectFile struct {
	Effects []EffectDef `yaml:"effects"`
}

// ToDefinition converts the YAML record to a registrable definition.
func (d *EffectDef) ToDefinition() particle.EffectDefinition {
	layer := particle.LayerWorld
	switch d.Layer {
	case "background":
		layer = particle.LayerBackground
	case "foreground":
		layer = particle.LayerForeground
	}
	mult := d.IntensityMultiplier
	if mult <= 0 {
		mult = 1
	}
	return particle.EffectDefinition{
		Name:  d.Name,
		Layer: layer,
		Emitter: particle.EmitterConfig{
			Direction:     geom.Vector2D{X: d.DirectionX, Y: d.DirectionY},
			Spread:        d.Spread,
			EmissionRate:  d.EmissionRate,
			MinSpeed:      d.MinSpeed,
			MaxSpeed:      d.MaxSpeed,
			MinLife:       d.MinLife,
			MaxLife:       d.MaxLife,
			MinSize:       d.MinSize,
			MaxSize:       d.MaxSize,
			MinColor:      d.MinColor,
			MaxColor:      d.MaxColor,
			Gravity:       geom.Vector2D{X: d.GravityX, Y: d.GravityY},
			Wind:          geom.Vector2D{X: d.WindX, Y: d.WindY},
			Duration:      d.Duration,
			BurstCount:    d.BurstCount,
			BurstInterval: d.BurstInterval,
		},
		IntensityMultiplier: mult,
		ScreenSpace:         d.ScreenSpace,
	}
}

// LoadEffectTable loads custom particle effect definitions. A missing
// file is not an error; the built-in effects always remain available.
func LoadEffectTable(path string) ([]EffectDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("effects: read %s: %w", path, err)
	}

	var f effectFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("effects: parse %s: %w", path, err)
	}
	for i := range f.Effects {
		if f.Effects[i].Name == "" {
			return nil, fmt.Errorf("effects: entry %d in %s has no name", i, path)
		}
	}
	return f.Effects, nil
}
