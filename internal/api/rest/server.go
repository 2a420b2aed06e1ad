package rest

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	app "posture-bot/internal/application"
	"posture-bot/internal/infrastructure/metrics"
)

// Options параметры HTTP API
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int

	// Gatherer источник для /metrics, nil отключает маршрут
	Gatherer prometheus.Gatherer
	// Recorder считает запросы, может быть nil
	Recorder *metrics.Recorder
}

func NewFiber() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "Posture Bot",
		BodyLimit:             20 * 1024 * 1024,
		CaseSensitive:         true,
		DisableStartupMessage: true,
		ErrorHandler:          FiberErrorHandler,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
	})
}

// NewServer собирает приложение fiber со всеми маршрутами API
func NewServer(logger *logrus.Logger, assessments *app.AssessmentService, opts Options) *fiber.App {
	srv := NewFiber()
	mw := NewMiddleware(logger, opts.RateLimitRPS, opts.RateLimitBurst)

	srv.Use(mw.RequestID())
	srv.Use(mw.Logging())
	if opts.Recorder != nil {
		srv.Use(opts.Recorder.Middleware())
	}

	srv.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if opts.Gatherer != nil {
		srv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := srv.Group("/api/v1", mw.RateLimit())
	NewAssessmentHandler(logger, validator.New(), mw, assessments).Start(api)

	return srv
}
