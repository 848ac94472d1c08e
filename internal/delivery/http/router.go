package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/cropprospector/backend/internal/service"
	"github.com/cropprospector/backend/pkg/metrics"
)

// SetupMiddleware installs the middleware chain shared by every route
func SetupMiddleware(app *fiber.App, m *metrics.Manager, log *zap.Logger) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(AccessLog(log.Named("http")))
	app.Use(Metrics(m))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, advisorySvc *service.AdvisoryService, m *metrics.Manager, log *zap.Logger) {
	handler := NewHandler(advisorySvc, log.Named("http"))

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Post("/recommendations", handler.Recommend)
		api.Get("/recommendations", handler.RecommendQuery)
		api.Post("/recommendations/batch", handler.RecommendBatch)

		api.Get("/options", handler.GetOptions)
		api.Get("/history", handler.GetHistory)
	}
}
