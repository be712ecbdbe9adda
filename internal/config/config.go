package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-plant-advisor/internal/logger"
)

// AppConfig holds process settings. The forecast endpoints and location are
// constants in the providers package and are not configurable.
type AppConfig struct {
	Environment string `mapstructure:"ENVIRONMENT" validate:"oneof=development production test"`
	Port        string `mapstructure:"PORT" validate:"required,numeric"`

	// RefreshInterval controls how often the selected date is re-fetched (0 = never).
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL" validate:"gte=0"`

	// HTTPTimeout bounds outbound requests (0 = transport default).
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gte=0"`

	// Outbound request pacing towards the forecast API.
	OutboundRPS   float64 `mapstructure:"OUTBOUND_RPS" validate:"gt=0"`
	OutboundBurst int     `mapstructure:"OUTBOUND_BURST" validate:"gte=1"`

	// DefaultPlant is the species name selected at start.
	DefaultPlant string `mapstructure:"DEFAULT_PLANT" validate:"required"`
}

var validate = validator.New()

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Infow("No .env file found or error loading it", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REFRESH_INTERVAL", "15m")
	v.SetDefault("HTTP_TIMEOUT", "0s")
	v.SetDefault("OUTBOUND_RPS", 2.0)
	v.SetDefault("OUTBOUND_BURST", 2)
	v.SetDefault("DEFAULT_PLANT", "Snake Plant")
}
