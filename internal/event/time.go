package event

// TimeEventKind distinguishes the clock's boundary notifications.
type TimeEventKind uint8

const (
	HourChanged TimeEventKind = iota
	DayChanged
	MonthChanged
	SeasonChanged
	YearChanged
	WeatherCheck
	TimePeriodChanged
)

func (k TimeEventKind) String() string {
	switch k {
	case HourChanged:
		return "HourChanged"
	case DayChanged:
		return "DayChanged"
	case MonthChanged:
		return "MonthChanged"
	case SeasonChanged:
		return "SeasonChanged"
	case YearChanged:
		return "YearChanged"
	case WeatherCheck:
		return "WeatherCheck"
	case TimePeriodChanged:
		return "TimePeriodChanged"
	}
	return "Unknown"
}

// TimeEvent is the payload the clock dispatches on calendar boundary
// crossings. Only the fields relevant to Kind are populated.
type TimeEvent struct {
	Base
	Kind TimeEventKind

	Hour    int
	IsNight bool

	Day        int
	DayOfMonth int
	Month      int
	MonthName  string

	Season         Season
	PreviousSeason Season
	SeasonName     string

	Year int

	RecommendedWeather WeatherType

	Period         TimePeriod
	PreviousPeriod TimePeriod
	Visuals        RGBA
}

func NewTimeEvent(kind TimeEventKind) *TimeEvent {
	return &TimeEvent{Base: NewBase(kind.String()+"Event", TypeTime), Kind: kind}
}

func NewHourChangedEvent(hour int, isNight bool) *TimeEvent {
	e := NewTimeEvent(HourChanged)
	e.Hour = hour
	e.IsNight = isNight
	return e
}

func NewDayChangedEvent(day, dayOfMonth, month int, monthName string) *TimeEvent {
	e := NewTimeEvent(DayChanged)
	e.Day = day
	e.DayOfMonth = dayOfMonth
	e.Month = month
	e.MonthName = monthName
	return e
}

func NewMonthChangedEvent(month int, monthName string, season Season) *TimeEvent {
	e := NewTimeEvent(MonthChanged)
	e.Month = month
	e.MonthName = monthName
	e.Season = season
	return e
}

func NewSeasonChangedEvent(season, previous Season) *TimeEvent {
	e := NewTimeEvent(SeasonChanged)
	e.Season = season
	e.PreviousSeason = previous
	e.SeasonName = season.String()
	return e
}

func NewYearChangedEvent(year int) *TimeEvent {
	e := NewTimeEvent(YearChanged)
	e.Year = year
	return e
}

func NewWeatherCheckEvent(season Season, recommended WeatherType) *TimeEvent {
	e := NewTimeEvent(WeatherCheck)
	e.Season = season
	e.RecommendedWeather = recommended
	return e
}

func NewTimePeriodChangedEvent(period, previous TimePeriod) *TimeEvent {
	e := NewTimeEvent(TimePeriodChanged)
	e.Period = period
	e.PreviousPeriod = previous
	e.Visuals = PeriodTint(period)
	return e
}
