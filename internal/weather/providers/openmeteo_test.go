package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-plant-advisor/internal/weather"
)

func serveFile(t *testing.T, name string) (*httptest.Server, func() url.Values) {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = r.URL.Query()
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, func() url.Values {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(base string) *OpenMeteoProvider {
	p := NewOpenMeteoProvider(http.DefaultClient, nil)
	p.forecastURL = base + "/v1/forecast"
	p.airQualityURL = base + "/v1/air-quality"
	return p
}

func TestFetchForecastDecodesFixture(t *testing.T) {
	srv, query := serveFile(t, "forecast.json")
	p := newTestProvider(srv.URL)

	fc, err := p.FetchForecast(context.Background())
	require.NoError(t, err)

	require.Len(t, fc.Daily.Time, 3)
	assert.Len(t, fc.Daily.WeatherCode, 3)
	assert.Len(t, fc.Daily.MaxTemp, 3)
	assert.Len(t, fc.Daily.MinTemp, 3)
	assert.Len(t, fc.Daily.Precipitation, 3)
	assert.Len(t, fc.Daily.MaxWindSpeed, 3)
	assert.Equal(t, "2025-11-02", fc.Daily.Time[1])

	require.NotNil(t, fc.Daily.WeatherCode[1])
	assert.Equal(t, 61, *fc.Daily.WeatherCode[1])
	assert.Nil(t, fc.Daily.WeatherCode[2])
	assert.Nil(t, fc.Daily.MaxTemp[2])
	require.NotNil(t, fc.Daily.Precipitation[0])
	assert.Equal(t, 0.0, *fc.Daily.Precipitation[0])

	humidity := fc.Hourly.Channel(weather.ChannelHumidity)
	require.Len(t, fc.Hourly.Time, 60)
	require.Len(t, humidity, 60)
	require.NotNil(t, humidity[24])
	assert.Equal(t, 50.0, *humidity[24])
	assert.Nil(t, humidity[25], "null must stay absent, not zero")

	q := query()
	assert.Equal(t, Latitude, q.Get("latitude"))
	assert.Equal(t, Longitude, q.Get("longitude"))
	assert.Equal(t, Timezone, q.Get("timezone"))
	assert.Equal(t, "7", q.Get("forecast_days"))
	assert.Equal(t, "1", q.Get("past_days"))
	assert.Equal(t, "relative_humidity_2m", q.Get("hourly"))
	assert.Equal(t, "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,weather_code", q.Get("daily"))
}

func TestFetchAirQualityDecodesFixture(t *testing.T) {
	srv, query := serveFile(t, "air_quality.json")
	p := newTestProvider(srv.URL)

	aq, err := p.FetchAirQuality(context.Background())
	require.NoError(t, err)

	require.Len(t, aq.Hourly.Time, 48)
	for _, ch := range []weather.Channel{weather.ChannelPM10, weather.ChannelPM25, weather.ChannelCarbonDioxide, weather.ChannelCarbonMonoxide} {
		assert.Len(t, aq.Hourly.Channel(ch), 48, string(ch))
	}

	pm25 := aq.Hourly.Channel(weather.ChannelPM25)
	assert.Nil(t, pm25[5])
	require.NotNil(t, pm25[4])
	assert.Equal(t, 14.0, *pm25[4])

	co2 := aq.Hourly.Channel(weather.ChannelCarbonDioxide)
	require.NotNil(t, co2[23])
	assert.Equal(t, 423.0, *co2[23])
	assert.Nil(t, co2[24])
	assert.Nil(t, aq.Hourly.Channel(weather.ChannelCarbonMonoxide)[0])

	q := query()
	assert.Equal(t, "pm10,pm2_5,carbon_monoxide,carbon_dioxide", q.Get("hourly"))
	assert.Equal(t, "cams_global", q.Get("domains"))
	assert.Equal(t, Timezone, q.Get("timezone"))
}

func TestFetchNon2xxIsTransportError(t *testing.T) {
	srv := serveBody(t, http.StatusInternalServerError, `{"error":true}`)
	p := newTestProvider(srv.URL)

	_, err := p.FetchForecast(context.Background())
	require.ErrorIs(t, err, weather.ErrTransport)
	assert.Contains(t, err.Error(), "500")

	_, err = p.FetchAirQuality(context.Background())
	require.ErrorIs(t, err, weather.ErrTransport)
}

func TestRepeatedFailuresDoNotSuppressLaterFetches(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "forecast.json"))
	require.NoError(t, err)

	var (
		status atomic.Int32
		hits   atomic.Int32
	)
	status.Store(http.StatusServiceUnavailable)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		code := int(status.Load())
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write(body)
		}
	}))
	t.Cleanup(srv.Close)
	p := newTestProvider(srv.URL)

	for i := 0; i < 10; i++ {
		_, err := p.FetchForecast(context.Background())
		require.ErrorIs(t, err, weather.ErrTransport)
		assert.Contains(t, err.Error(), "503")
	}
	assert.EqualValues(t, 10, hits.Load(), "every failing fetch reaches the server")

	status.Store(http.StatusOK)
	fc, err := p.FetchForecast(context.Background())
	require.NoError(t, err)
	assert.Len(t, fc.Daily.Time, 3)
	assert.EqualValues(t, 11, hits.Load())
}

func TestFetchErrorsKeepTheirCause(t *testing.T) {
	srv, _ := serveFile(t, "forecast.json")
	p := newTestProvider(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.FetchForecast(ctx)
	require.ErrorIs(t, err, weather.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)

	bad := serveBody(t, http.StatusOK, `{"hourly": {"time": ["2025-11-01T00:00"], "pm10": ["high"]}}`)
	_, err = newTestProvider(bad.URL).FetchAirQuality(context.Background())
	require.ErrorIs(t, err, weather.ErrDecode)
	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestFetchUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := newTestProvider(base).FetchAirQuality(context.Background())
	require.ErrorIs(t, err, weather.ErrTransport)
}

func TestFetchMalformedJSONIsDecodeError(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"daily": {"time": [`)
	_, err := newTestProvider(srv.URL).FetchForecast(context.Background())
	require.ErrorIs(t, err, weather.ErrDecode)
}

func TestFetchSchemaMismatchIsDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong element type", `{"hourly": {"time": ["2025-11-01T00:00"], "pm10": ["high"]}}`},
		{"missing hourly", `{"latitude": 22.5}`},
		{"misaligned channel", `{"hourly": {"time": ["2025-11-01T00:00", "2025-11-01T01:00"], "pm10": [1], "pm2_5": [1, 2], "carbon_dioxide": [1, 2], "carbon_monoxide": [1, 2]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveBody(t, http.StatusOK, tt.body)
			_, err := newTestProvider(srv.URL).FetchAirQuality(context.Background())
			require.ErrorIs(t, err, weather.ErrDecode)
		})
	}
}

func TestFetchInvalidURL(t *testing.T) {
	p := NewOpenMeteoProvider(http.DefaultClient, nil)
	p.forecastURL = "://not a url"

	_, err := p.FetchForecast(context.Background())
	require.ErrorIs(t, err, weather.ErrInvalidURL)
}

func TestDefaultURLsAreValid(t *testing.T) {
	p := NewOpenMeteoProvider(http.DefaultClient, nil)

	u, err := p.ForecastURL()
	require.NoError(t, err)
	assert.Contains(t, u, "https://api.open-meteo.com/v1/forecast?")

	u, err = p.AirQualityURL()
	require.NoError(t, err)
	assert.Contains(t, u, "https://air-quality-api.open-meteo.com/v1/air-quality?")
}
