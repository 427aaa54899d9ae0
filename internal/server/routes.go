package server

import (
	"github.com/gofiber/fiber/v2"

	"hostcraft/internal/core/content"
	"hostcraft/internal/core/job"
	"hostcraft/internal/core/report"
	"hostcraft/internal/health"
	"hostcraft/internal/platform/redis"
)

type Dependencies struct {
	Job     *job.JobService
	Content *content.Service
	Reports *report.Service
	Redis   *redis.Service
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	contentHandler := content.NewHandler(d.Content)
	api.Post("/listing-analysis", contentHandler.HandleListingAnalysis)
	api.Post("/guides", contentHandler.HandleGuides)
	api.Post("/seo-content", contentHandler.HandleSEOContent)
	api.Post("/review-sentiment", contentHandler.HandleReviewSentiment)

	reportHandler := report.NewHandler(d.Job, d.Reports)
	api.Post("/reports", reportHandler.HandleCreateReport)
	api.Get("/reports/:jobId", reportHandler.HandleGetReport)

	return healthHandler
}
