package config

import "os"

// Config holds application configuration loaded from the environment.
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	WeatherAPIKey string
	GeminiAPIKey  string

	// RefreshCron is the cron spec for the nationwide forecast warmup job.
	RefreshCron string

	// Capability flags for the ensemble sub-models. Injected here rather
	// than probed from the environment at call time so both combinations
	// stay testable.
	SequenceModelEnabled bool
	SeasonalModelEnabled bool
}

// AppConfig holds the application-wide configuration.
var AppConfig Config

// Load populates AppConfig from environment variables.
func Load() {
	AppConfig = Config{
		Port:                 getEnv("PORT", "8000"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		WeatherAPIKey:        os.Getenv("WEATHER_API_KEY"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		RefreshCron:          getEnv("FORECAST_REFRESH_CRON", "0 */6 * * *"),
		SequenceModelEnabled: getEnv("SEQUENCE_MODEL_ENABLED", "true") == "true",
		SeasonalModelEnabled: getEnv("SEASONAL_MODEL_ENABLED", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
