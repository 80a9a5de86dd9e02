package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ConnectRedis establishes connection to Redis. It returns nil when no address
// is configured or the server is unreachable; reset-code attempt limiting is
// then disabled.
func ConnectRedis(cfg *Configuration, log *logrus.Entry) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, reset attempt limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.WithError(err).Warn("Redis connection failed, reset attempt limiting disabled")
		client.Close()
		return nil
	}

	log.Info("Connected to Redis")
	return client
}
