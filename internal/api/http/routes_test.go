package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/i474232898/weather-plant-advisor/internal/plants"
	"github.com/i474232898/weather-plant-advisor/internal/store"
	"github.com/i474232898/weather-plant-advisor/internal/weather"
)

// unavailable fails every fetch, which is enough to drive the handlers.
type unavailable struct{}

func (unavailable) FetchForecast(context.Context) (weather.Forecast, error) {
	return weather.Forecast{}, fmt.Errorf("%w: connection refused", weather.ErrTransport)
}

func (unavailable) FetchAirQuality(context.Context) (weather.AirQuality, error) {
	return weather.AirQuality{}, fmt.Errorf("%w: connection refused", weather.ErrTransport)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	summaries := store.NewSummaryStore(weather.InitialSummary())
	t.Cleanup(summaries.Close)

	app := fiber.New()
	RegisterRoutes(app, weather.NewService(summaries, unavailable{}, unavailable{}))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGetSummary(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got weather.DaySummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, weather.ConditionClear, got.Condition)
	assert.Equal(t, weather.StatusIdle, got.Weather.Status)
	assert.Equal(t, plants.Default().ID, got.SelectedPlant.ID)
}

func TestSelectDateValidation(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []string{`{}`, `{"date":"01/11/2025"}`, `{"date":"2025-13-01"}`, `not json`} {
		resp := do(t, app, http.MethodPut, "/api/v1/date", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestSelectDateReportsFailuresInSummary(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPut, "/api/v1/date", `{"date":"2025-11-01"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got weather.DaySummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "2025-11-01", got.SelectedDate)
	assert.Equal(t, weather.StatusFailed, got.Weather.Status)
	assert.Equal(t, weather.StatusFailed, got.AirQuality.Status)
	assert.Contains(t, got.ErrorMessage, "connection refused")
}

func TestRefreshWithoutDate(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/v1/refresh", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	do(t, app, http.MethodPut, "/api/v1/date", `{"date":"2025-11-01"}`)
	resp = do(t, app, http.MethodPost, "/api/v1/refresh", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlants(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/plants", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Plants []plants.Species `json:"plants"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, plants.Catalog(), list.Plants)

	lily, err := plants.LookupName("Peace Lily")
	require.NoError(t, err)

	resp = do(t, app, http.MethodPut, "/api/v1/plants/selected", fmt.Sprintf(`{"id":%q}`, lily.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec plants.Recommendation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, plants.Recommendation{PlantCount: 0, OxygenOutput: "0.0"}, rec)

	resp = do(t, app, http.MethodGet, "/api/v1/recommendation", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current struct {
		Plant plants.Species `json:"plant"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&current))
	assert.Equal(t, "Peace Lily", current.Plant.Name)
}

func TestSelectPlantErrors(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPut, "/api/v1/plants/selected", `{"id":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPut, "/api/v1/plants/selected", fmt.Sprintf(`{"id":%q}`, uuid.New()))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	prev := log
	log = zap.New(core).Sugar()
	t.Cleanup(func() { log = prev })
	return logs
}

func TestSelectDateLogsFetchErrors(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)

	resp := do(t, app, http.MethodPut, "/api/v1/date", `{"date":"2025-11-01"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("Date selection finished with errors").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-11-01", entries[0].ContextMap()["date"])
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}

func TestSelectDateLogsClosedStore(t *testing.T) {
	logs := observeLogs(t)
	summaries := store.NewSummaryStore(weather.InitialSummary())
	app := fiber.New()
	RegisterRoutes(app, weather.NewService(summaries, unavailable{}, unavailable{}))
	summaries.Close()

	resp := do(t, app, http.MethodPut, "/api/v1/date", `{"date":"2025-11-01"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	entries := logs.FilterMessage("Date selection finished with errors").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], store.ErrClosed.Error())
}
