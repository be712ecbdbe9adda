package weather

// DailyFigures are the values derived from the daily record of one date.
type DailyFigures struct {
	Date          string
	Condition     Condition
	MinTemp       int
	MaxTemp       int
	Precipitation float64
	MaxWindSpeed  float64
}

// AirFigures are the per-pollutant maxima over one day. Nil means every
// hourly reading for that pollutant was missing.
type AirFigures struct {
	PM10           *float64
	PM25           *float64
	CarbonDioxide  *float64
	CarbonMonoxide *float64
}

// SummarizeDay derives the daily figures for date. Missing numeric entries
// read as zero; a missing weather code classifies as cloudy.
func SummarizeDay(daily DailySeries, date string) (DailyFigures, error) {
	i, err := LocateDay(daily.Time, date)
	if err != nil {
		return DailyFigures{}, err
	}
	rec := daily.Record(i)
	return DailyFigures{
		Date:          rec.Date,
		Condition:     ClassifyCode(rec.WeatherCode),
		MinTemp:       Truncate(Lookup(daily.MinTemp, i)),
		MaxTemp:       Truncate(Lookup(daily.MaxTemp, i)),
		Precipitation: Lookup(daily.Precipitation, i),
		MaxWindSpeed:  Lookup(daily.MaxWindSpeed, i),
	}, nil
}

// AverageHumidity returns the truncated mean relative humidity for date, or
// nil when no hour of that date has a reading.
func AverageHumidity(hourly HourlySeries, date string) (*int, error) {
	r, err := LocateHours(hourly.Time, date)
	if err != nil {
		return nil, err
	}
	avg, ok := Average(r.Slice(hourly.Channel(ChannelHumidity)))
	if !ok {
		return nil, nil
	}
	h := Truncate(avg)
	return &h, nil
}

// SummarizeAir derives the per-pollutant maxima for date.
func SummarizeAir(hourly HourlySeries, date string) (AirFigures, error) {
	r, err := LocateHours(hourly.Time, date)
	if err != nil {
		return AirFigures{}, err
	}
	return AirFigures{
		PM10:           maxOf(r.Slice(hourly.Channel(ChannelPM10))),
		PM25:           maxOf(r.Slice(hourly.Channel(ChannelPM25))),
		CarbonDioxide:  maxOf(r.Slice(hourly.Channel(ChannelCarbonDioxide))),
		CarbonMonoxide: maxOf(r.Slice(hourly.Channel(ChannelCarbonMonoxide))),
	}, nil
}
