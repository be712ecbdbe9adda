package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-plant-advisor/internal/plants"
)

// DateLayout is the calendar-date format shared by the daily time array, the
// hourly time prefix and the date selected by callers.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Channel names one hourly measurement array. Values match the API field names.
type Channel string

const (
	ChannelHumidity       Channel = "relative_humidity_2m"
	ChannelPM10           Channel = "pm10"
	ChannelPM25           Channel = "pm2_5"
	ChannelCarbonDioxide  Channel = "carbon_dioxide"
	ChannelCarbonMonoxide Channel = "carbon_monoxide"
)

// DailySeries holds one entry per calendar date as parallel arrays.
// A nil element means the API returned null for that date.
type DailySeries struct {
	Time          []string
	WeatherCode   []*int
	MaxTemp       []*float64 // °C
	MinTemp       []*float64 // °C
	Precipitation []*float64 // mm
	MaxWindSpeed  []*float64 // km/h
}

// DailyRecord is the i-th entry of a DailySeries.
type DailyRecord struct {
	Date          string
	WeatherCode   *int
	MaxTemp       *float64
	MinTemp       *float64
	Precipitation *float64
	MaxWindSpeed  *float64
}

// Record returns the entry at index i. i must be a valid index of d.Time.
func (d DailySeries) Record(i int) DailyRecord {
	return DailyRecord{
		Date:          d.Time[i],
		WeatherCode:   at(d.WeatherCode, i),
		MaxTemp:       at(d.MaxTemp, i),
		MinTemp:       at(d.MinTemp, i),
		Precipitation: at(d.Precipitation, i),
		MaxWindSpeed:  at(d.MaxWindSpeed, i),
	}
}

// Validate checks that every array is index-aligned with Time.
func (d DailySeries) Validate() error {
	n := len(d.Time)
	lengths := map[string]int{
		"weather_code":       len(d.WeatherCode),
		"temperature_2m_max": len(d.MaxTemp),
		"temperature_2m_min": len(d.MinTemp),
		"precipitation_sum":  len(d.Precipitation),
		"wind_speed_10m_max": len(d.MaxWindSpeed),
	}
	for name, l := range lengths {
		if l != n {
			return fmt.Errorf("daily.%s has %d entries, daily.time has %d", name, l, n)
		}
	}
	return nil
}

// HourlySeries holds one entry per hour. Every channel shares the index to
// timestamp mapping of Time ("2006-01-02T15:04").
type HourlySeries struct {
	Time   []string
	Values map[Channel][]*float64
}

// Channel returns the values recorded for ch, or nil if ch was not requested.
func (h HourlySeries) Channel(ch Channel) []*float64 {
	return h.Values[ch]
}

// Validate checks that every channel is index-aligned with Time.
func (h HourlySeries) Validate() error {
	for ch, values := range h.Values {
		if len(values) != len(h.Time) {
			return fmt.Errorf("hourly.%s has %d entries, hourly.time has %d", ch, len(values), len(h.Time))
		}
	}
	return nil
}

// Forecast is the decoded weather endpoint response.
type Forecast struct {
	Daily  DailySeries
	Hourly HourlySeries
}

// AirQuality is the decoded air-quality endpoint response.
type AirQuality struct {
	Hourly HourlySeries
}

// FetchStatus is the state of one fetch type.
type FetchStatus string

const (
	StatusIdle     FetchStatus = "idle"
	StatusFetching FetchStatus = "fetching"
	StatusReady    FetchStatus = "ready"
	StatusFailed   FetchStatus = "failed"
)

// FetchState tracks the lifecycle of one fetch type.
type FetchState struct {
	Status    FetchStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
}

// DaySummary is the derived view of one selected date.
//
// Pointer fields are nil until a value has been derived. Writers replace
// pointers and never write through them, so a shallow copy is a safe snapshot.
type DaySummary struct {
	SelectedDate string `json:"selectedDate"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	// Written by the weather fetch.
	Date            string    `json:"date,omitempty"`
	Condition       Condition `json:"condition"`
	ConditionSymbol string    `json:"conditionSymbol"`
	MinTemp         *int      `json:"minTempC"`
	MaxTemp         *int      `json:"maxTempC"`
	Precipitation   *float64  `json:"precipitationSumMm"`
	AverageHumidity *int      `json:"averageHumidityPercent"`
	MaxWindSpeed    *float64  `json:"maxWindSpeedKmh"`

	// Written by the air-quality fetch.
	PM10Max           *float64 `json:"pm10Max"`
	PM25Max           *float64 `json:"pm25Max"`
	CarbonDioxideMax  *float64 `json:"carbonDioxideMax"`
	CarbonMonoxideMax *float64 `json:"carbonMonoxideMax"`

	Weather    FetchState `json:"weather"`
	AirQuality FetchState `json:"airQuality"`

	SelectedPlant  plants.Species        `json:"selectedPlant"`
	Recommendation plants.Recommendation `json:"recommendation"`
}

func at[T any](values []*T, i int) *T {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
