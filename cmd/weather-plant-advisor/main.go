package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weather-plant-advisor/internal/api/http"
	"github.com/i474232898/weather-plant-advisor/internal/config"
	"github.com/i474232898/weather-plant-advisor/internal/logger"
	"github.com/i474232898/weather-plant-advisor/internal/plants"
	"github.com/i474232898/weather-plant-advisor/internal/scheduler"
	"github.com/i474232898/weather-plant-advisor/internal/store"
	"github.com/i474232898/weather-plant-advisor/internal/weather"
	"github.com/i474232898/weather-plant-advisor/internal/weather/providers"
)

func main() {
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("Failed to load config", "error", err)
	}

	// Shared HTTP client for both forecast endpoints.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.OutboundRPS), cfg.OutboundBurst)
	provider := providers.NewOpenMeteoProvider(httpClient, limiter)

	summaries := store.NewSummaryStore(weather.InitialSummary())
	defer summaries.Close()

	service := weather.NewService(summaries, provider, provider)

	if sp, err := plants.LookupName(cfg.DefaultPlant); err != nil {
		log.Warnw("Unknown default plant, keeping catalog default", "plant", cfg.DefaultPlant)
	} else if _, err := service.SelectPlant(sp.ID); err != nil {
		log.Warnw("Failed to select default plant", "plant", cfg.DefaultPlant, "error", err)
	}

	// Initial load for today's date in the forecast timezone.
	loc, err := time.LoadLocation(providers.Timezone)
	if err != nil {
		log.Fatalw("Failed to load forecast timezone", "timezone", providers.Timezone, "error", err)
	}
	go func() {
		if err := service.SelectDate(context.Background(), weather.FormatDate(time.Now().In(loc))); err != nil {
			log.Warnw("Initial fetch failed", "error", err)
		}
	}()

	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalw("Failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-plant-advisor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-plant-advisor",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Infow("Starting HTTP server", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Infow("Fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("Error during shutdown", "error", err)
	}
}
