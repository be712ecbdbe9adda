package weather

import "context"

// ForecastProvider fetches the weather forecast window (daily + hourly humidity).
type ForecastProvider interface {
	FetchForecast(ctx context.Context) (Forecast, error)
}

// AirQualityProvider fetches the hourly air-quality forecast window.
type AirQualityProvider interface {
	FetchAirQuality(ctx context.Context) (AirQuality, error)
}

// Store owns the DaySummary. Every mutation runs on one coordinating context,
// in submission order.
type Store interface {
	Update(fn func(*DaySummary)) error
	Snapshot() (DaySummary, error)
}
