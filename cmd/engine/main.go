package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emberforge/engine/internal/clock"
	"github.com/emberforge/engine/internal/config"
	"github.com/emberforge/engine/internal/core/pool"
	"github.com/emberforge/engine/internal/data"
	"github.com/emberforge/engine/internal/event"
	"github.com/emberforge/engine/internal/particle"
	"github.com/emberforge/engine/internal/render"
	"github.com/emberforge/engine/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("EMBERFORGE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting engine", zap.String("name", cfg.Engine.Name))

	// 3. Worker pool
	workers := pool.New(cfg.Threading.Workers, log)
	defer workers.Shutdown()

	// 4. Event fabric
	events := event.NewManager(workers, log)
	if !events.Init() {
		return fmt.Errorf("event manager init failed")
	}
	defer events.Clean()
	events.ConfigureThreading(cfg.Threading.Enabled, cfg.Threading.EventThreshold)
	events.SetTaskTimeouts(cfg.Threading.TaskTimeout, cfg.Threading.TaskTimeoutMax)

	// 5. Particle core
	particles := particle.NewCore(workers, log)
	if !particles.InitWithCapacity(cfg.Particles.MaxParticles) {
		return fmt.Errorf("particle core init failed")
	}
	defer particles.Clean()
	particles.SetThreadingThreshold(cfg.Particles.ThreadingThreshold)
	particles.SetCullMargin(float32(cfg.Particles.CullMargin))

	// 6. Game clock
	gameTime := clock.New(events, log)
	if !gameTime.Init(cfg.Time.StartHour, cfg.Time.TimeScale) {
		return fmt.Errorf("game time init failed")
	}
	gameTime.EnableAutoWeather(cfg.Time.AutoWeather)
	gameTime.SetWeatherCheckInterval(cfg.Time.WeatherIntervalHours)

	// 7. Data tables
	calendar, err := data.LoadCalendar(cfg.Engine.DataDir + "/calendar.yaml")
	if err != nil {
		return fmt.Errorf("load calendar: %w", err)
	}
	gameTime.SetCalendarConfig(calendar)

	effects, err := data.LoadEffectTable(cfg.Engine.DataDir + "/effect_list.yaml")
	if err != nil {
		return fmt.Errorf("load effects: %w", err)
	}
	for _, def := range effects {
		particles.RegisterEffect(def.ToDefinition())
	}
	if len(effects) > 0 {
		log.Info("custom effects registered", zap.Int("count", len(effects)))
	}

	// 8. Lua scripting
	luaEngine, err := scripting.NewEngine(cfg.Engine.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()

	// 9. Wire the weather chain: Weather events drive the particle core,
	// WeatherCheck time events feed recommendations back into the fabric.
	events.RegisterHandler(event.TypeWeather, func(d event.Data) {
		we, ok := d.Event.(*event.WeatherEvent)
		if !ok {
			return
		}
		p := we.Params()
		particles.TriggerWeatherEffect(we.WeatherTypeString(), p.Intensity, p.TransitionTime)
	})
	events.RegisterHandler(event.TypeTime, func(d event.Data) {
		te, ok := d.Event.(*event.TimeEvent)
		if !ok || te.Kind != event.WeatherCheck {
			return
		}
		events.ChangeWeather(te.RecommendedWeather.String(), 3.0, event.Deferred)
	})
	events.RegisterHandler(event.TypeParticleEffect, func(d event.Data) {
		pe, ok := d.Event.(*event.ParticleEffectEvent)
		if !ok {
			return
		}
		id := particles.PlayIndependentEffect(pe.EffectName(), pe.Position(),
			pe.Intensity(), pe.Duration(), pe.GroupTag(), pe.Sound())
		pe.SetLiveEffectID(id)
	})

	// 10. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	sink := &render.Recorder{}
	dt := float32(cfg.Loop.TickRate.Seconds())

	log.Info("frame loop running", zap.Duration("tick", cfg.Loop.TickRate))

	for {
		select {
		case <-ticker.C:
			gameTime.Tick()
			events.Update()
			particles.Update(dt)
			particles.Render(sink, 0, 0)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
