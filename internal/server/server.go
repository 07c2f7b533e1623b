package server

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/ats-checker/internal/config"
	"alfredoptarigan/ats-checker/internal/handlers"
	"alfredoptarigan/ats-checker/internal/metrics"
	"alfredoptarigan/ats-checker/internal/middleware"
	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/repositories"
	"alfredoptarigan/ats-checker/internal/services"
)

// formOverhead leaves room for the job description and multipart framing on
// top of the file size limit.
const formOverhead = 1 << 20

// Dependencies are the process-wide collaborators injected into the app.
// AnalysisRepo and RateLimiter may be nil.
type Dependencies struct {
	Config       *config.Config
	Gemini       services.GeminiService
	Extractor    services.TextExtractor
	AnalysisRepo repositories.AnalysisRepository
	RateLimiter  *middleware.RateLimiter
	Registry     *prometheus.Registry
}

// NewApp builds the fiber application with all routes registered.
func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.New(registry)

	normalizer := services.NewResponseNormalizer()
	analyzer := services.NewAnalyzerService(
		deps.Extractor,
		services.NewPromptBuilder(cfg.Analysis.MaxResumeChars, cfg.Analysis.MaxJobDescriptionChars),
		deps.Gemini,
		normalizer,
		deps.AnalysisRepo,
		m,
	)

	atsHandler := handlers.NewATSHandler(analyzer, normalizer, cfg.Storage.MaxFileSize, cfg.Server.RequestTimeout)
	historyHandler := handlers.NewHistoryHandler(deps.AnalysisRepo)
	pageHandler := handlers.NewPageHandler(analyzer, cfg.Storage.MaxFileSize, cfg.Server.RequestTimeout)

	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Checker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + formOverhead,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-Analysis-ID, X-Request-ID, Content-Disposition",
	}))

	limit := middleware.RateLimit(deps.RateLimiter, m)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"time":            time.Now(),
			"circuit_breaker": deps.Gemini.BreakerState(),
			"history":         deps.AnalysisRepo != nil,
		})
	})

	api.Post("/ats-check", limit, atsHandler.HandleCheck)
	api.Post("/ats-check/export", atsHandler.HandleExport)
	api.Post("/ats-check/view", atsHandler.HandleView)
	api.Get("/analyses", historyHandler.HandleList)
	api.Get("/analyses/:id", historyHandler.HandleGet)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.Get("/", pageHandler.HandleIndex)
	app.Post("/", limit, pageHandler.HandleSubmit)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ Request %s %s failed: %v\n", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Message: err.Error(),
	})
}
