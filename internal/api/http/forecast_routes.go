package httpapi

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
	"github.com/etrheim/energy-load-dashboard/internal/source"
)

var validate = validator.New()

// forecastQuery holds query parameters for the latest-forecast endpoint.
type forecastQuery struct {
	Hours int `validate:"min=1,max=168"`
}

type forecastResponse struct {
	ActualLoad     []float64 `json:"actual_load"`
	EntsoeForecast []float64 `json:"entsoe_forecast"`
	ModelForecast  []float64 `json:"model_forecast"`
	Timestamp      string    `json:"timestamp"`
}

// RegisterForecastRoutes wires the forecast API into the Fiber app.
func RegisterForecastRoutes(app *fiber.App, src source.SampleSource, defaultHours int, loc *time.Location, log logrus.FieldLogger) {
	if loc == nil {
		loc = time.UTC
	}

	app.Get("/api/latest-forecast", func(c *fiber.Ctx) error {
		q := forecastQuery{Hours: defaultHours}
		if raw := c.Query("hours"); raw != "" {
			hours, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "hours must be an integer")
			}
			q.Hours = hours
		}

		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sample, err := src.Latest(c.UserContext(), q.Hours)
		if err != nil {
			log.WithError(err).Error("forecast lookup failed")
			return fiber.NewError(fiber.StatusBadGateway, "failed to load forecast data")
		}

		return c.JSON(forecastResponse{
			ActualLoad:     sample.ActualLoad,
			EntsoeForecast: sample.EntsoeForecast,
			ModelForecast:  sample.ModelForecast,
			Timestamp:      sample.Timestamp.In(loc).Format(forecast.WireTimeLayout),
		})
	})
}
