package clock

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/event"
)

// Dispatcher receives the time events the clock emits on boundary
// crossings. The event manager satisfies it.
type Dispatcher interface {
	DispatchEvent(ev event.Event, mode event.DispatchMode)
}

// GameTime advances game time from real frame deltas and dispatches
// calendar boundary events. It is driven from the main loop only; the
// dispatcher publishes into the concurrent fabric on its behalf.
type GameTime struct {
	log        *zap.Logger
	dispatcher Dispatcher
	rng        *rand.Rand

	initialized bool
	paused      bool

	currentHour      float64 // [0, 24)
	currentDay       int     // starts at 1, never resets
	totalGameSeconds float64
	timeScale        float64

	sunriseHour float64
	sunsetHour  float64

	calendar     CalendarConfig
	currentMonth int
	dayOfMonth   int
	currentYear  int
	seasonConfig SeasonConfig

	// previous-state mirrors for boundary detection
	prevHour   int
	prevPeriod event.TimePeriod

	autoWeather          bool
	weatherIntervalHours float64
	lastWeatherCheckAbs  float64 // absolute game hours at the last check

	// baseline for Tick-driven updates
	now      func() time.Time
	lastTick time.Time
}

// New creates an uninitialized clock that dispatches through d. d may be
// nil; boundary events are then dropped.
func New(d Dispatcher, log *zap.Logger) *GameTime {
	return &GameTime{
		log:        log,
		dispatcher: d,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
	}
}

// Init sets the starting hour and time scale. Returns false for an hour
// outside [0, 24) or a non-positive scale. Re-initializing resets all
// state.
func (g *GameTime) Init(startHour, timeScale float64) bool {
	if startHour < 0 || startHour >= 24 {
		g.log.Warn("rejected game time init", zap.Float64("start_hour", startHour))
		return false
	}
	if timeScale <= 0 {
		g.log.Warn("rejected game time init", zap.Float64("time_scale", timeScale))
		return false
	}
	g.currentHour = startHour
	g.currentDay = 1
	g.totalGameSeconds = 0
	g.timeScale = timeScale
	g.sunriseHour = 6
	g.sunsetHour = 18
	g.paused = false
	g.calendar = CreateDefaultCalendar()
	g.currentMonth = 0
	g.dayOfMonth = 1
	g.currentYear = 1
	g.seasonConfig = DefaultSeasonConfig(g.calendar.Months[0].Season)
	g.prevHour = int(startHour)
	g.prevPeriod = periodOf(startHour)
	g.weatherIntervalHours = 4
	g.lastWeatherCheckAbs = startHour
	g.lastTick = g.now()
	g.initialized = true
	return true
}

func (g *GameTime) IsInitialized() bool { return g.initialized }

// Clean drops the dispatcher reference and marks the clock
// uninitialized. Idempotent.
func (g *GameTime) Clean() {
	g.initialized = false
}

// Pause freezes game time; Update becomes a no-op.
func (g *GameTime) Pause() { g.paused = true }

// Resume unfreezes and resets the tick baseline so the paused span does
// not replay as a jump.
func (g *GameTime) Resume() {
	g.paused = false
	g.lastTick = g.now()
}

func (g *GameTime) IsPaused() bool { return g.paused }

// Tick advances by the real time elapsed since the previous Tick or
// Resume, for callers without their own frame delta.
func (g *GameTime) Tick() {
	now := g.now()
	dt := now.Sub(g.lastTick).Seconds()
	g.lastTick = now
	g.Update(dt)
}

// Update advances game time by dtReal seconds scaled by the time scale,
// then dispatches one event per boundary crossed.
func (g *GameTime) Update(dtReal float64) {
	if !g.initialized || g.paused || dtReal <= 0 {
		return
	}
	g.advance(dtReal * g.timeScale)
}

func (g *GameTime) advance(deltaGameSeconds float64) {
	g.totalGameSeconds += deltaGameSeconds

	prevPeriod := periodOf(g.currentHour)
	newHour := g.currentHour + deltaGameSeconds/3600

	// hour boundary events, one per crossing regardless of delta size
	crossings := int(math.Floor(newHour)) - int(math.Floor(g.currentHour))
	baseHour := int(math.Floor(g.currentHour))
	for i := 1; i <= crossings; i++ {
		label := (baseHour + i) % 24
		g.dispatch(event.NewHourChangedEvent(label, g.isNightAt(float64(label))))
	}

	// day rollover, advancing calendar state per day crossed
	for newHour >= 24 {
		newHour -= 24
		g.advanceDay()
	}
	g.currentHour = newHour
	g.prevHour = int(math.Floor(g.currentHour))

	if p := periodOf(g.currentHour); p != prevPeriod {
		g.dispatch(event.NewTimePeriodChangedEvent(p, prevPeriod))
		g.prevPeriod = p
	}

	g.checkWeather()
}

// advanceDay moves the calendar forward one day and dispatches the
// day/month/season/year events the step produces.
func (g *GameTime) advanceDay() {
	g.currentDay++
	g.dayOfMonth++

	monthChanged := false
	yearChanged := false
	prevSeason := g.calendar.Months[g.currentMonth].Season

	if g.dayOfMonth > g.calendar.Months[g.currentMonth].DayCount {
		g.dayOfMonth = 1
		g.currentMonth++
		monthChanged = true
		if g.currentMonth >= len(g.calendar.Months) {
			g.currentMonth = 0
			g.currentYear++
			yearChanged = true
		}
	}

	month := g.calendar.Months[g.currentMonth]
	g.dispatch(event.NewDayChangedEvent(g.currentDay, g.dayOfMonth, g.currentMonth, month.Name))
	if monthChanged {
		g.dispatch(event.NewMonthChangedEvent(g.currentMonth, month.Name, month.Season))
		if month.Season != prevSeason {
			g.seasonConfig = DefaultSeasonConfig(month.Season)
			g.dispatch(event.NewSeasonChangedEvent(month.Season, prevSeason))
		}
	}
	if yearChanged {
		g.dispatch(event.NewYearChangedEvent(g.currentYear))
	}
}

func (g *GameTime) checkWeather() {
	if !g.autoWeather {
		return
	}
	abs := g.absoluteHours()
	if math.Abs(abs-g.lastWeatherCheckAbs) < g.weatherIntervalHours {
		return
	}
	recommended := g.RollWeatherForSeason()
	g.dispatch(event.NewWeatherCheckEvent(g.Season(), recommended))
	g.lastWeatherCheckAbs = abs
}

func (g *GameTime) dispatch(ev event.Event) {
	if g.dispatcher != nil {
		g.dispatcher.DispatchEvent(ev, event.Deferred)
	}
}

// absoluteHours is total elapsed game hours since day 1 hour 0.
func (g *GameTime) absoluteHours() float64 {
	return float64(g.currentDay-1)*24 + g.currentHour
}

// ── Mutators ───────────────────────────────────────────────────────

func (g *GameTime) SetTimeScale(scale float64) {
	if scale <= 0 {
		g.log.Warn("ignored non-positive time scale", zap.Float64("scale", scale))
		return
	}
	g.timeScale = scale
}

// SetGameHour jumps the hour of day without dispatching boundary events.
func (g *GameTime) SetGameHour(hour float64) {
	if hour < 0 || hour >= 24 {
		g.log.Warn("ignored out-of-range hour", zap.Float64("hour", hour))
		return
	}
	g.currentHour = hour
	g.prevHour = int(math.Floor(hour))
	g.prevPeriod = periodOf(hour)
}

// SetGameDay jumps to an absolute day (1-based) and recomputes calendar
// state from it.
func (g *GameTime) SetGameDay(day int) {
	if day < 1 {
		day = 1
	}
	g.currentDay = day
	yearLen := g.calendar.TotalDaysInYear()
	if yearLen == 0 {
		return
	}
	d := (day - 1) % yearLen
	g.currentYear = 1 + (day-1)/yearLen
	for i, m := range g.calendar.Months {
		if d < m.DayCount {
			g.currentMonth = i
			g.dayOfMonth = d + 1
			g.seasonConfig = DefaultSeasonConfig(m.Season)
			return
		}
		d -= m.DayCount
	}
}

func (g *GameTime) SetDaylightHours(sunrise, sunset float64) {
	if sunrise < 0 || sunrise >= 24 || sunset < 0 || sunset >= 24 {
		g.log.Warn("ignored invalid daylight hours",
			zap.Float64("sunrise", sunrise), zap.Float64("sunset", sunset))
		return
	}
	g.sunriseHour = sunrise
	g.sunsetHour = sunset
}

// SetCalendarConfig replaces the month table. An empty config is
// rejected.
func (g *GameTime) SetCalendarConfig(c CalendarConfig) bool {
	if len(c.Months) == 0 {
		g.log.Warn("rejected empty calendar config")
		return false
	}
	g.calendar = c
	g.SetGameDay(g.currentDay)
	return true
}

func (g *GameTime) EnableAutoWeather(enable bool) { g.autoWeather = enable }

func (g *GameTime) SetWeatherCheckInterval(hours float64) {
	if hours <= 0 {
		g.log.Warn("ignored non-positive weather interval", zap.Float64("hours", hours))
		return
	}
	g.weatherIntervalHours = hours
}

// ── Queries ────────────────────────────────────────────────────────

func (g *GameTime) GameHour() float64           { return g.currentHour }
func (g *GameTime) GameDay() int                { return g.currentDay }
func (g *GameTime) GameYear() int               { return g.currentYear }
func (g *GameTime) CurrentMonth() int           { return g.currentMonth }
func (g *GameTime) DayOfMonth() int             { return g.dayOfMonth }
func (g *GameTime) TimeScale() float64          { return g.timeScale }
func (g *GameTime) TotalGameSeconds() float64   { return g.totalGameSeconds }
func (g *GameTime) PrevHour() int               { return g.prevHour }
func (g *GameTime) SeasonConfig() SeasonConfig  { return g.seasonConfig }
func (g *GameTime) Calendar() CalendarConfig    { return g.calendar }

func (g *GameTime) CurrentMonthName() string {
	if len(g.calendar.Months) == 0 {
		return ""
	}
	return g.calendar.Months[g.currentMonth].Name
}

func (g *GameTime) Season() event.Season {
	if len(g.calendar.Months) == 0 {
		return event.Spring
	}
	return g.calendar.Months[g.currentMonth].Season
}

func (g *GameTime) SeasonName() string { return g.Season().String() }

func (g *GameTime) IsDaytime() bool {
	return g.currentHour >= g.sunriseHour && g.currentHour < g.sunsetHour
}

func (g *GameTime) IsNighttime() bool { return !g.IsDaytime() }

func (g *GameTime) isNightAt(hour float64) bool {
	return hour < g.sunriseHour || hour >= g.sunsetHour
}

// TimeOfDayName maps the hour to Morning 5-8, Day 8-17, Evening 17-21,
// Night otherwise.
func (g *GameTime) TimeOfDayName() string { return periodOf(g.currentHour).String() }

// Period returns the current time period.
func (g *GameTime) Period() event.TimePeriod { return periodOf(g.currentHour) }

func periodOf(hour float64) event.TimePeriod {
	switch {
	case hour >= 5 && hour < 8:
		return event.Morning
	case hour >= 8 && hour < 17:
		return event.Day
	case hour >= 17 && hour < 21:
		return event.Evening
	default:
		return event.Night
	}
}

// CurrentTemperature interpolates between the season's min and max by an
// hour-of-day curve: coldest near 4 AM, warmest near 2 PM.
func (g *GameTime) CurrentTemperature() float64 {
	frac := temperatureFraction(g.currentHour)
	return g.seasonConfig.MinTemperature + frac*(g.seasonConfig.MaxTemperature-g.seasonConfig.MinTemperature)
}

func temperatureFraction(hour float64) float64 {
	x := math.Mod(hour-4+24, 24)
	if x <= 10 { // rising 4 AM → 2 PM
		return 0.5 - 0.5*math.Cos(math.Pi*x/10)
	}
	// falling 2 PM → 4 AM
	return 0.5 + 0.5*math.Cos(math.Pi*(x-10)/14)
}

// FormatCurrentTime renders "HH:MM" or "h:MM AM/PM".
func (g *GameTime) FormatCurrentTime(use24Hour bool) string {
	h := int(g.currentHour)
	// epsilon keeps binary-inexact hours from truncating a minute low
	m := int((g.currentHour-float64(h))*60 + 1e-6)
	if use24Hour {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	suffix := "AM"
	display := h
	switch {
	case h == 0:
		display = 12
	case h == 12:
		suffix = "PM"
	case h > 12:
		display = h - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, m, suffix)
}

// RollWeatherForSeason samples the current (or given) season's weather
// distribution.
func (g *GameTime) RollWeatherForSeason(season ...event.Season) event.WeatherType {
	cfg := g.seasonConfig
	if len(season) > 0 {
		cfg = DefaultSeasonConfig(season[0])
	}
	return cfg.Roll(g.rng)
}
