package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-plant-advisor/internal/weather"
)

// Fixed location and forecast window shared by both endpoints.
const (
	Latitude     = "22.5626"
	Longitude    = "88.363"
	Timezone     = "Asia/Kolkata"
	ForecastDays = "7"
	PastDays     = "1"

	forecastBaseURL   = "https://api.open-meteo.com/v1/forecast"
	airQualityBaseURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
)

var (
	dailyFields  = []string{"temperature_2m_max", "temperature_2m_min", "precipitation_sum", "wind_speed_10m_max", "weather_code"}
	hourlyFields = []weather.Channel{weather.ChannelHumidity}
	airFields    = []weather.Channel{weather.ChannelPM10, weather.ChannelPM25, weather.ChannelCarbonMonoxide, weather.ChannelCarbonDioxide}
)

// OpenMeteoProvider fetches the weather and air-quality forecast windows from
// Open-Meteo for the fixed location.
type OpenMeteoProvider struct {
	forecastURL   string
	airQualityURL string
	httpCfg       HTTPClientConfig

	forecastCircuit   *gobreaker.CircuitBreaker
	airQualityCircuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider returns a provider that issues requests with client.
// limiter may be nil.
func NewOpenMeteoProvider(client *http.Client, limiter *rate.Limiter) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		forecastURL:       forecastBaseURL,
		airQualityURL:     airQualityBaseURL,
		httpCfg:           HTTPClientConfig{Client: client, Limiter: limiter},
		forecastCircuit:   newCircuitBreaker("openmeteo-forecast"),
		airQualityCircuit: newCircuitBreaker("openmeteo-air-quality"),
	}
}

func baseQuery() url.Values {
	values := url.Values{}
	values.Set("latitude", Latitude)
	values.Set("longitude", Longitude)
	values.Set("timezone", Timezone)
	values.Set("forecast_days", ForecastDays)
	values.Set("past_days", PastDays)
	return values
}

func joinChannels(chs []weather.Channel) string {
	names := make([]string, len(chs))
	for i, ch := range chs {
		names[i] = string(ch)
	}
	return strings.Join(names, ",")
}

// ForecastURL returns the weather endpoint URL with its fixed query.
func (p *OpenMeteoProvider) ForecastURL() (string, error) {
	values := baseQuery()
	values.Set("daily", strings.Join(dailyFields, ","))
	values.Set("hourly", joinChannels(hourlyFields))
	return buildURL(p.forecastURL, values)
}

// AirQualityURL returns the air-quality endpoint URL with its fixed query.
func (p *OpenMeteoProvider) AirQualityURL() (string, error) {
	values := baseQuery()
	values.Set("hourly", joinChannels(airFields))
	values.Set("domains", "cams_global")
	return buildURL(p.airQualityURL, values)
}

type forecastPayload struct {
	Daily *struct {
		Time          []string   `json:"time"`
		WeatherCode   []*int     `json:"weather_code"`
		MaxTemp       []*float64 `json:"temperature_2m_max"`
		MinTemp       []*float64 `json:"temperature_2m_min"`
		Precipitation []*float64 `json:"precipitation_sum"`
		MaxWindSpeed  []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
	Hourly *struct {
		Time             []string   `json:"time"`
		RelativeHumidity []*float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

type airQualityPayload struct {
	Hourly *struct {
		Time           []string   `json:"time"`
		PM10           []*float64 `json:"pm10"`
		PM25           []*float64 `json:"pm2_5"`
		CarbonDioxide  []*float64 `json:"carbon_dioxide"`
		CarbonMonoxide []*float64 `json:"carbon_monoxide"`
	} `json:"hourly"`
}

// FetchForecast fetches and decodes the weather endpoint.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context) (weather.Forecast, error) {
	u, err := p.ForecastURL()
	if err != nil {
		return weather.Forecast{}, err
	}

	var payload forecastPayload
	if err := getJSON(ctx, p.httpCfg, p.forecastCircuit, u, &payload); err != nil {
		return weather.Forecast{}, err
	}
	if payload.Daily == nil || payload.Daily.Time == nil {
		return weather.Forecast{}, fmt.Errorf("%w: missing daily.time", weather.ErrDecode)
	}
	if payload.Hourly == nil || payload.Hourly.Time == nil {
		return weather.Forecast{}, fmt.Errorf("%w: missing hourly.time", weather.ErrDecode)
	}

	forecast := weather.Forecast{
		Daily: weather.DailySeries{
			Time:          payload.Daily.Time,
			WeatherCode:   payload.Daily.WeatherCode,
			MaxTemp:       payload.Daily.MaxTemp,
			MinTemp:       payload.Daily.MinTemp,
			Precipitation: payload.Daily.Precipitation,
			MaxWindSpeed:  payload.Daily.MaxWindSpeed,
		},
		Hourly: weather.HourlySeries{
			Time: payload.Hourly.Time,
			Values: map[weather.Channel][]*float64{
				weather.ChannelHumidity: payload.Hourly.RelativeHumidity,
			},
		},
	}
	if err := forecast.Daily.Validate(); err != nil {
		return weather.Forecast{}, fmt.Errorf("%w: %w", weather.ErrDecode, err)
	}
	if err := forecast.Hourly.Validate(); err != nil {
		return weather.Forecast{}, fmt.Errorf("%w: %w", weather.ErrDecode, err)
	}
	return forecast, nil
}

// FetchAirQuality fetches and decodes the air-quality endpoint.
func (p *OpenMeteoProvider) FetchAirQuality(ctx context.Context) (weather.AirQuality, error) {
	u, err := p.AirQualityURL()
	if err != nil {
		return weather.AirQuality{}, err
	}

	var payload airQualityPayload
	if err := getJSON(ctx, p.httpCfg, p.airQualityCircuit, u, &payload); err != nil {
		return weather.AirQuality{}, err
	}
	if payload.Hourly == nil || payload.Hourly.Time == nil {
		return weather.AirQuality{}, fmt.Errorf("%w: missing hourly.time", weather.ErrDecode)
	}

	aq := weather.AirQuality{
		Hourly: weather.HourlySeries{
			Time: payload.Hourly.Time,
			Values: map[weather.Channel][]*float64{
				weather.ChannelPM10:           payload.Hourly.PM10,
				weather.ChannelPM25:           payload.Hourly.PM25,
				weather.ChannelCarbonDioxide:  payload.Hourly.CarbonDioxide,
				weather.ChannelCarbonMonoxide: payload.Hourly.CarbonMonoxide,
			},
		},
	}
	if err := aq.Hourly.Validate(); err != nil {
		return weather.AirQuality{}, fmt.Errorf("%w: %w", weather.ErrDecode, err)
	}
	return aq, nil
}

var (
	_ weather.ForecastProvider   = (*OpenMeteoProvider)(nil)
	_ weather.AirQualityProvider = (*OpenMeteoProvider)(nil)
)
