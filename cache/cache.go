package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is the shared Redis handle. It stays nil when Redis is not
// configured; callers treat that as a cache that always misses. The
// forecasting core never touches this handle; only the HTTP layer and the
// refresh scheduler do.
var Client *redis.Client

const ForecastTTL = 15 * time.Minute

// NationwideKey names the cached nationwide forecast for a granularity.
func NationwideKey(forecastType string) string {
	return fmt.Sprintf("forecast:nationwide:%s", forecastType)
}

// Connect initializes the shared client and verifies the connection.
func Connect(addr, password string) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		Client = nil
		return fmt.Errorf("redis ping failed: %w", err)
	}

	zap.L().Info("connected to redis", zap.String("addr", addr))
	return nil
}

// Close releases the shared client.
func Close() {
	if Client != nil {
		if err := Client.Close(); err != nil {
			zap.L().Warn("closing redis client", zap.Error(err))
		}
		Client = nil
	}
}
