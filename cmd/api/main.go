package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"cv-matcher/internal/config"
	"cv-matcher/internal/handlers"
	"cv-matcher/internal/logger"
	"cv-matcher/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Logging)
	log.Info().Msg("config loaded")

	// Initialize services
	extractor := services.NewDocumentExtractor()

	geminiService, err := services.NewGeminiService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Gemini client")
	}
	log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini client initialized")

	comparator := services.NewComparatorService(extractor, geminiService, cfg.Gemini.Timeout)

	// Initialize handlers
	compareHandler := handlers.NewCompareHandler(comparator, cfg.Upload.MaxFileSize)
	searchHandler := handlers.NewSearchHandler(comparator, cfg.Upload.MaxFileSize)

	app := newApp(cfg, compareHandler, searchHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func newApp(cfg *config.Config, compareHandler *handlers.CompareHandler, searchHandler *handlers.SearchHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "CV Matcher API",
		// The model call dominates request time, so the write timeout has
		// to outlast the Gemini timeout.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize) * (cfg.Upload.MaxFiles + 1),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/compare", compareHandler.HandleCompare)
	api.Post("/search-query", searchHandler.HandleSearchQuery)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/compare",
				"POST /api/search-query",
			},
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
