package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Loop      LoopConfig      `toml:"loop"`
	Threading ThreadingConfig `toml:"threading"`
	Particles ParticleConfig  `toml:"particles"`
	Time      TimeConfig      `toml:"time"`
	Logging   LoggingConfig   `toml:"logging"`
}

type EngineConfig struct {
	Name       string `toml:"name"`
	ScriptsDir string `toml:"scripts_dir"`
	DataDir    string `toml:"data_dir"`
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

type ThreadingConfig struct {
	Enabled        bool          `toml:"enabled"`
	Workers        int           `toml:"workers"` // 0 = GOMAXPROCS-1
	EventThreshold int           `toml:"event_threshold"`
	TaskTimeout    time.Duration `toml:"task_timeout"`
	TaskTimeoutMax time.Duration `toml:"task_timeout_max"`
}

type ParticleConfig struct {
	MaxParticles       int     `toml:"max_particles"`
	ThreadingThreshold int     `toml:"threading_threshold"`
	CullMargin         float64 `toml:"cull_margin"`
}

type TimeConfig struct {
	StartHour            float64 `toml:"start_hour"`
	TimeScale            float64 `toml:"time_scale"`
	AutoWeather          bool    `toml:"auto_weather"`
	WeatherIntervalHours float64 `toml:"weather_interval_hours"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration, used when no config file is
// present.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:       "emberforge",
			ScriptsDir: "scripts",
			DataDir:    "data/yaml",
		},
		Loop: LoopConfig{
			TickRate: 16 * time.Millisecond, // ~60 Hz
		},
		Threading: ThreadingConfig{
			Enabled:        true,
			Workers:        0,
			EventThreshold: 50,
			TaskTimeout:    500 * time.Millisecond,
			TaskTimeoutMax: 2 * time.Second,
		},
		Particles: ParticleConfig{
			MaxParticles:       100_000,
			ThreadingThreshold: 1000,
			CullMargin:         128,
		},
		Time: TimeConfig{
			StartHour:            12.0,
			TimeScale:            60.0, // one game minute per real second
			AutoWeather:          true,
			WeatherIntervalHours: 4.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
