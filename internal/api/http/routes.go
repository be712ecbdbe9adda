package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-plant-advisor/internal/logger"
	"github.com/i474232898/weather-plant-advisor/internal/plants"
	"github.com/i474232898/weather-plant-advisor/internal/weather"
)

var (
	validate = validator.New()
	log      = logger.Named("http")
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/summary", func(c *fiber.Ctx) error {
		summary, err := service.Summary()
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "summary unavailable")
		}
		return c.JSON(summary)
	})

	// Fetch failures are reported inside the summary (errorMessage and the
	// per-source state), so the response is still 200.
	v1.Put("/date", func(c *fiber.Ctx) error {
		var req dateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}

		if err := service.SelectDate(c.UserContext(), req.Date); err != nil {
			log.Warnw("Date selection finished with errors", "date", req.Date, "error", err)
		}

		summary, err := service.Summary()
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "summary unavailable")
		}
		return c.JSON(summary)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		if err := service.Refresh(c.UserContext()); errors.Is(err, weather.ErrNoDateSelected) {
			return fiber.NewError(fiber.StatusConflict, "no date selected")
		}

		summary, err := service.Summary()
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "summary unavailable")
		}
		return c.JSON(summary)
	})

	v1.Get("/plants", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"plants": plants.Catalog(),
		})
	})

	v1.Put("/plants/selected", func(c *fiber.Ctx) error {
		var req plantRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}

		rec, err := service.SelectPlant(uuid.MustParse(req.ID))
		if err != nil {
			if errors.Is(err, plants.ErrUnknownSpecies) {
				return fiber.NewError(fiber.StatusNotFound, "unknown plant species")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to select plant")
		}
		return c.JSON(rec)
	})

	v1.Get("/recommendation", func(c *fiber.Ctx) error {
		rec, sp, err := service.Recommendation()
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "recommendation unavailable")
		}
		return c.JSON(fiber.Map{
			"plant":          sp,
			"recommendation": rec,
		})
	})
}

// dateRequest selects the date to summarize.
type dateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// plantRequest selects a species by identity.
type plantRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
