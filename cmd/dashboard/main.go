package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpapi "github.com/etrheim/energy-load-dashboard/internal/api/http"
	"github.com/etrheim/energy-load-dashboard/internal/config"
	"github.com/etrheim/energy-load-dashboard/internal/dashboard"
	"github.com/etrheim/energy-load-dashboard/internal/forecast"
	"github.com/etrheim/energy-load-dashboard/internal/metrics"
	"github.com/etrheim/energy-load-dashboard/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := newLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	refreshMetrics := metrics.NewRefresh(reg)
	httpMetrics := metrics.NewHTTP(reg, "dashboard")

	// Outbound client for forecast fetches. A zero timeout keeps the
	// transport default.
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}

	state := dashboard.NewDisplayState()
	fetcher := forecast.NewFetcher(cfg.ForecastURL, httpClient, cfg.Location)
	axis := dashboard.HourlyAxis{Location: cfg.Location}
	updater := dashboard.NewUpdater(fetcher, state, axis, cfg.Location, refreshMetrics, log)

	sched := scheduler.New(cfg.UpdateInterval, func() {
		updater.RunCycle(context.Background())
	}, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "energy-load-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(httpapi.RequestID())
	app.Use(httpapi.Metrics(httpMetrics))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "dashboard",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpapi.RegisterDashboardRoutes(app, state, sched, log)

	go func() {
		if err := app.Listen(":" + cfg.DashboardPort); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}

func newLogger(cfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}
