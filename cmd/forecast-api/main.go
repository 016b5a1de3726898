package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpapi "github.com/etrheim/energy-load-dashboard/internal/api/http"
	"github.com/etrheim/energy-load-dashboard/internal/config"
	"github.com/etrheim/energy-load-dashboard/internal/metrics"
	"github.com/etrheim/energy-load-dashboard/internal/source"
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
	httpMetrics := metrics.NewHTTP(reg, "forecast-api")

	var base source.SampleSource
	if cfg.UpstreamURL != "" {
		httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
		base = source.NewUpstreamSource(cfg.UpstreamURL, cfg.CountryCode, httpClient, cfg.Location, log)
		log.WithField("upstream", cfg.UpstreamURL).Info("serving forecasts from upstream")
	} else {
		base = source.NewSyntheticSource(cfg.SyntheticSeed, cfg.Location)
		log.Info("serving synthetic forecasts")
	}

	cached, err := source.NewCachedSource(base, cfg.CacheSize, cfg.CacheBucket, log)
	if err != nil {
		log.Fatalf("failed to build forecast cache: %v", err)
	}

	warmer := source.NewWarmer(cached, cfg.CacheBucket, cfg.DefaultHours, log)
	if err := warmer.Start(); err != nil {
		log.Fatalf("failed to start cache warmer: %v", err)
	}
	defer warmer.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "energy-forecast-api",
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
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET",
	}))
	app.Use(httpapi.RequestID())
	app.Use(httpapi.Metrics(httpMetrics))
	app.Use(httpapi.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "forecast-api",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpapi.RegisterForecastRoutes(app, cached, cfg.DefaultHours, cfg.Location, log)

	go func() {
		if err := app.Listen(":" + cfg.APIPort); err != nil {
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
