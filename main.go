package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"agrohub-ai/cache"
	"agrohub-ai/collector"
	"agrohub-ai/config"
	"agrohub-ai/database"
	"agrohub-ai/forecast"
	"agrohub-ai/handlers"
	"agrohub-ai/routes"
	"agrohub-ai/scheduler"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}
	config.Load()

	if config.AppConfig.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	// Initialize database
	if err := database.Connect(config.AppConfig.DatabaseURL); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Redis is optional; without it every request recomputes.
	if err := cache.Connect(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword); err != nil {
		logger.Warn("redis unavailable, serving without warm snapshots", zap.Error(err))
	}
	defer cache.Close()

	// Wire the forecasting engine
	source := collector.New(database.GetDB(), logger)
	weather := collector.NewWeatherClient(config.AppConfig.WeatherAPIKey, logger)
	ensemble := forecast.NewEnsemble(
		config.AppConfig.SequenceModelEnabled,
		config.AppConfig.SeasonalModelEnabled,
		logger,
	)
	svc := forecast.NewService(source, weather, ensemble, logger)
	handlers.Init(svc)

	app := fiber.New()
	app.Use(cors.New())
	routes.SetupRoutes(app)

	refreshScheduler := scheduler.New(svc, database.GetDB(), logger)
	if err := refreshScheduler.Start(config.AppConfig.RefreshCron); err != nil {
		logger.Fatal("failed to start forecast refresh scheduler", zap.Error(err))
	}

	go func() {
		addr := ":" + config.AppConfig.Port
		logger.Info("starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	refreshScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
