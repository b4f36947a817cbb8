package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/event"
	"github.com/emberforge/engine/internal/geom"
	"github.com/emberforge/engine/internal/particle"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEffectTable(t *testing.T) {
	path := writeTemp(t, "effect_list.yaml", `
effects:
  - name: Fireflies
    layer: foreground
    emission_rate: 12
    min_speed: 5
    max_speed: 20
    min_life: 2
    max_life: 6
    min_size: 1
    max_size: 2
    min_color: 0xCCFF66FF
    max_color: 0x99CC3388
    duration: -1
    intensity_multiplier: 0.8
  - name: DustBurst
    layer: world
    emission_rate: 0
    burst_count: 25
    burst_interval: 0.5
    min_life: 0.5
    max_life: 1
    min_size: 2
    max_size: 4
    duration: 1.5
`)
	defs, err := LoadEffectTable(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "Fireflies", defs[0].Name)
	assert.Equal(t, float32(12), defs[0].EmissionRate)
	assert.Equal(t, uint32(0xCCFF66FF), defs[0].MinColor)
	assert.Equal(t, 25, defs[1].BurstCount)
}

func TestLoadEffectTableMissingFile(t *testing.T) {
	defs, err := LoadEffectTable(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, defs)
}

func TestLoadEffectTableRejectsUnnamed(t *testing.T) {
	path := writeTemp(t, "bad.yaml", `
effects:
  - layer: world
    emission_rate: 5
`)
	_, err := LoadEffectTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")
}

func TestLoadEffectTableMalformedYAML(t *testing.T) {
	path := writeTemp(t, "bad.yaml", "effects: [}")
	_, err := LoadEffectTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestEffectDefToDefinition(t *testing.T) {
	d := EffectDef{
		Name:       "Ash",
		Layer:      "background",
		DirectionX: 0, DirectionY: 1,
		EmissionRate: 40,
		MinLife:      1, MaxLife: 3,
		GravityY:    20,
		WindX:       -5,
		Duration:    -1,
		ScreenSpace: true,
	}
	def := d.ToDefinition()
	assert.Equal(t, "Ash", def.Name)
	assert.Equal(t, particle.LayerBackground, def.Layer)
	assert.Equal(t, float32(20), def.Emitter.Gravity.Y)
	assert.Equal(t, float32(-5), def.Emitter.Wind.X)
	assert.True(t, def.ScreenSpace)
	assert.Equal(t, float32(1), def.IntensityMultiplier, "zero multiplier defaults to 1")

	// unknown layer names land in the world pass
	d.Layer = "nonsense"
	assert.Equal(t, particle.LayerWorld, d.ToDefinition().Layer)
}

func TestLoadedEffectIsPlayable(t *testing.T) {
	path := writeTemp(t, "effect_list.yaml", `
effects:
  - name: Pollen
    layer: world
    emission_rate: 30
    min_speed: 2
    max_speed: 10
    min_life: 3
    max_life: 8
    min_size: 1
    max_size: 3
    min_color: 0xFFFF99AA
    max_color: 0xFFFFCC55
    duration: -1
`)
	defs, err := LoadEffectTable(path)
	require.NoError(t, err)

	core := particle.NewCore(nil, zap.NewNop())
	require.True(t, core.InitWithCapacity(1000))
	for _, d := range defs {
		require.True(t, core.RegisterEffect(d.ToDefinition()))
	}
	id := core.PlayEffect("Pollen", geom.Vector2D{X: 10, Y: 10}, 1)
	require.NotZero(t, id)
	core.Update(0.2)
	assert.Greater(t, core.ActiveParticleCount(), 0)
}

func TestLoadCalendar(t *testing.T) {
	path := writeTemp(t, "calendar.yaml", `
months:
  - name: Thaw
    days: 28
    season: spring
  - name: Blaze
    days: 35
    season: summer
  - name: Wane
    days: 28
    season: autumn
  - name: Deepcold
    days: 31
    season: winter
`)
	cfg, err := LoadCalendar(path)
	require.NoError(t, err)
	require.Len(t, cfg.Months, 4)
	assert.Equal(t, "Thaw", cfg.Months[0].Name)
	assert.Equal(t, 35, cfg.Months[1].DayCount)
	assert.Equal(t, event.Fall, cfg.Months[2].Season, "autumn is an alias for fall")
	assert.Equal(t, 122, cfg.TotalDaysInYear())
}

func TestLoadCalendarMissingFileUsesDefault(t *testing.T) {
	cfg, err := LoadCalendar(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, cfg.Months, 4)
	assert.Equal(t, 120, cfg.TotalDaysInYear())
}

func TestLoadCalendarValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", "months: []", "defines no months"},
		{"unnamed", "months:\n  - days: 30\n    season: spring", "has no name"},
		{"bad days", "months:\n  - name: X\n    days: 0\n    season: spring", "invalid day count"},
		{"bad season", "months:\n  - name: X\n    days: 30\n    season: monsoon", "unknown season"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemp(t, "calendar.yaml", tc.body)
			_, err := LoadCalendar(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
