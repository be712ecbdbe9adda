package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-plant-advisor/internal/logger"
	"github.com/i474232898/weather-plant-advisor/internal/metrics"
	"github.com/i474232898/weather-plant-advisor/internal/plants"
)

const (
	sourceWeather    = "weather"
	sourceAirQuality = "air_quality"
)

// Service runs the two fetch pipelines for the selected date and applies
// their results to the summary held by the store.
//
// The weather and air-quality fetches run independently and write disjoint
// summary fields. A response for a date that is no longer selected is still
// applied (last write wins).
type Service struct {
	store      Store
	forecasts  ForecastProvider
	airQuality AirQualityProvider
	log        *zap.SugaredLogger
	now        func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, forecasts ForecastProvider, airQuality AirQualityProvider) *Service {
	return &Service{
		store:      store,
		forecasts:  forecasts,
		airQuality: airQuality,
		log:        logger.Named("pipeline"),
		now:        time.Now,
	}
}

// InitialSummary is the state before any fetch, with the default plant selected.
func InitialSummary() DaySummary {
	sel := plants.Default()
	return DaySummary{
		Condition:       ConditionClear,
		ConditionSymbol: ConditionClear.Symbol(),
		Weather:         FetchState{Status: StatusIdle},
		AirQuality:      FetchState{Status: StatusIdle},
		SelectedPlant:   sel,
		Recommendation:  plants.Recommend(nil, sel),
	}
}

// SelectDate records date as the selection and runs both fetches for it
// concurrently. It returns once both have finished.
func (s *Service) SelectDate(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	if err := s.store.Update(func(d *DaySummary) {
		d.SelectedDate = date
	}); err != nil {
		return err
	}
	return s.fetchBoth(ctx, date)
}

// validateDate requires a full calendar date. A prefix such as "2025-11"
// would match every hour of the month.
func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidDate, date, err)
	}
	return nil
}

// Refresh re-runs both fetches for the currently selected date.
func (s *Service) Refresh(ctx context.Context) error {
	snap, err := s.store.Snapshot()
	if err != nil {
		return err
	}
	if snap.SelectedDate == "" {
		return ErrNoDateSelected
	}
	return s.fetchBoth(ctx, snap.SelectedDate)
}

func (s *Service) fetchBoth(ctx context.Context, date string) error {
	var (
		wg            sync.WaitGroup
		weatherErr    error
		airQualityErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		weatherErr = s.FetchWeather(ctx, date)
	}()
	go func() {
		defer wg.Done()
		airQualityErr = s.FetchAirQuality(ctx, date)
	}()
	wg.Wait()

	return errors.Join(weatherErr, airQualityErr)
}

// begin moves one fetch type into Fetching and clears the error message.
func (s *Service) begin(requestID string, state func(*DaySummary) *FetchState) error {
	return s.store.Update(func(d *DaySummary) {
		d.ErrorMessage = ""
		*state(d) = FetchState{Status: StatusFetching, RequestID: requestID}
	})
}

// fail records err on the fetch type without touching derived fields.
func (s *Service) fail(requestID string, err error, state func(*DaySummary) *FetchState) error {
	msg := err.Error()
	return s.store.Update(func(d *DaySummary) {
		d.ErrorMessage = msg
		*state(d) = FetchState{Status: StatusFailed, Error: msg, RequestID: requestID, UpdatedAt: s.now()}
	})
}

func weatherState(d *DaySummary) *FetchState    { return &d.Weather }
func airQualityState(d *DaySummary) *FetchState { return &d.AirQuality }

// FetchWeather fetches the weather window and derives the daily figures and
// average humidity for date. Transport and decode failures are returned and
// recorded; an absent date is logged and leaves the summary untouched.
func (s *Service) FetchWeather(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID, "source", sourceWeather, "date", date)
	start := s.now()

	if err := s.begin(requestID, weatherState); err != nil {
		return err
	}

	forecast, err := s.forecasts.FetchForecast(ctx)
	if err != nil {
		log.Errorw("Failed to fetch weather", "error", err)
		metrics.ObserveFetch(sourceWeather, metrics.OutcomeFailed, start)
		if uerr := s.fail(requestID, err, weatherState); uerr != nil {
			return uerr
		}
		return err
	}

	outcome := metrics.OutcomeReady
	day, dayErr := SummarizeDay(forecast.Daily, date)
	var (
		humidity    *int
		humidityErr error
	)
	if dayErr == nil {
		humidity, humidityErr = AverageHumidity(forecast.Hourly, date)
	}
	switch {
	case dayErr != nil:
		outcome = metrics.OutcomeNotFound
		log.Warnw("Could not find daily weather for date", "error", dayErr)
	case humidityErr != nil:
		outcome = metrics.OutcomeNotFound
		log.Warnw("Could not find hourly humidity for date", "error", humidityErr)
	}

	err = s.store.Update(func(d *DaySummary) {
		if dayErr == nil {
			d.Date = day.Date
			d.Condition = day.Condition
			d.ConditionSymbol = day.Condition.Symbol()
			d.MinTemp = &day.MinTemp
			d.MaxTemp = &day.MaxTemp
			d.Precipitation = &day.Precipitation
			d.MaxWindSpeed = &day.MaxWindSpeed
			if humidityErr == nil {
				d.AverageHumidity = humidity
			}
		}
		d.Weather = FetchState{Status: StatusReady, RequestID: requestID, UpdatedAt: s.now()}
	})
	metrics.ObserveFetch(sourceWeather, outcome, start)
	if err != nil {
		return err
	}

	if outcome == metrics.OutcomeReady {
		log.Infow("Successfully set weather values")
	}
	return nil
}

// FetchAirQuality fetches the air-quality window, derives the pollutant maxima
// for date and recomputes the recommendation.
func (s *Service) FetchAirQuality(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID, "source", sourceAirQuality, "date", date)
	start := s.now()

	if err := s.begin(requestID, airQualityState); err != nil {
		return err
	}

	aq, err := s.airQuality.FetchAirQuality(ctx)
	if err != nil {
		log.Errorw("Failed to fetch air quality", "error", err)
		metrics.ObserveFetch(sourceAirQuality, metrics.OutcomeFailed, start)
		if uerr := s.fail(requestID, err, airQualityState); uerr != nil {
			return uerr
		}
		return err
	}

	outcome := metrics.OutcomeReady
	air, airErr := SummarizeAir(aq.Hourly, date)
	if airErr != nil {
		outcome = metrics.OutcomeNotFound
		log.Warnw("Could not find air quality for date", "error", airErr)
	}

	var rec plants.Recommendation
	err = s.store.Update(func(d *DaySummary) {
		if airErr == nil {
			d.PM10Max = air.PM10
			d.PM25Max = air.PM25
			d.CarbonDioxideMax = air.CarbonDioxide
			d.CarbonMonoxideMax = air.CarbonMonoxide
			d.Recommendation = plants.Recommend(d.CarbonDioxideMax, d.SelectedPlant)
		}
		d.AirQuality = FetchState{Status: StatusReady, RequestID: requestID, UpdatedAt: s.now()}
		rec = d.Recommendation
	})
	metrics.ObserveFetch(sourceAirQuality, outcome, start)
	if err != nil {
		return err
	}
	metrics.SetRecommendedPlants(rec.PlantCount)

	if outcome == metrics.OutcomeReady {
		log.Infow("Successfully set max air quality values", "plants", rec.PlantCount)
	}
	return nil
}

// SelectPlant changes the selected species and recomputes the recommendation.
func (s *Service) SelectPlant(id uuid.UUID) (plants.Recommendation, error) {
	sp, err := plants.Lookup(id)
	if err != nil {
		return plants.Recommendation{}, err
	}

	var rec plants.Recommendation
	err = s.store.Update(func(d *DaySummary) {
		d.SelectedPlant = sp
		d.Recommendation = plants.Recommend(d.CarbonDioxideMax, sp)
		rec = d.Recommendation
	})
	if err != nil {
		return plants.Recommendation{}, err
	}
	metrics.SetRecommendedPlants(rec.PlantCount)
	s.log.Infow("Selected plant", "plant", sp.Name, "plants", rec.PlantCount)
	return rec, nil
}

// Summary returns a snapshot of the current summary.
func (s *Service) Summary() (DaySummary, error) {
	return s.store.Snapshot()
}

// Recommendation returns the current recommendation and the species it is for.
func (s *Service) Recommendation() (plants.Recommendation, plants.Species, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return plants.Recommendation{}, plants.Species{}, err
	}
	return snap.Recommendation, snap.SelectedPlant, nil
}
