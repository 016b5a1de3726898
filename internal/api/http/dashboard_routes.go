package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/etrheim/energy-load-dashboard/internal/dashboard"
	"github.com/etrheim/energy-load-dashboard/web"
)

// RefreshTrigger schedules an immediate refresh cycle.
type RefreshTrigger interface {
	RunNow() error
}

// RegisterDashboardRoutes wires the dashboard page and its state API
// into the Fiber app.
func RegisterDashboardRoutes(app *fiber.App, state *dashboard.DisplayState, trigger RefreshTrigger, log logrus.FieldLogger) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(web.IndexHTML)
	})

	app.Get("/api/dashboard/state", func(c *fiber.Ctx) error {
		return c.JSON(state.Snapshot())
	})

	app.Post("/api/dashboard/refresh", func(c *fiber.Ctx) error {
		if err := trigger.RunNow(); err != nil {
			log.WithError(err).Error("manual refresh failed")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to schedule refresh")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "refresh scheduled",
		})
	})
}
