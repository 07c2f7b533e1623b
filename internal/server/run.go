package server

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/ats-checker/internal/config"
	"alfredoptarigan/ats-checker/internal/middleware"
	"alfredoptarigan/ats-checker/internal/repositories"
	"alfredoptarigan/ats-checker/internal/services"
)

// NewGeminiFromConfig constructs the process-wide inference client.
func NewGeminiFromConfig(cfg *config.Config) (services.GeminiService, error) {
	return services.NewGeminiService(services.GeminiOptions{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Breaker: services.BreakerOptions{
			Enabled:          cfg.CircuitBreaker.Enabled,
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         cfg.CircuitBreaker.Interval,
			Timeout:          cfg.CircuitBreaker.Timeout,
			MinRequests:      cfg.CircuitBreaker.MinRequests,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		},
	})
}

// Run wires the dependencies, starts the HTTP server and blocks until it is
// shut down by SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	var analysisRepo repositories.AnalysisRepository
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		analysisRepo = repositories.NewAnalysisRepository(db)
		log.Println("✅ Analysis history enabled")
	} else {
		log.Println("ℹ️  Analysis history disabled")
	}

	geminiService, err := NewGeminiFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini AI: %w", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Burst)
		defer rateLimiter.Close()
	}

	app := NewApp(Dependencies{
		Config:       cfg,
		Gemini:       geminiService,
		Extractor:    services.NewTextExtractor(),
		AnalysisRepo: analysisRepo,
		RateLimiter:  rateLimiter,
	})
	log.Println("✅ Handlers initialized")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
