// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrTooManyAttempts = errors.New("too many attempts, try again later")

// GenerateNumericCode returns a zero-padded random decimal code of n digits
func GenerateNumericCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}

// RedisAttemptLimiter counts attempts per key in a fixed window
type RedisAttemptLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewRedisAttemptLimiter allows 5 attempts per key per hour
func NewRedisAttemptLimiter(client *redis.Client) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, max: 5, window: time.Hour}
}

// Allow records one attempt for key and fails once the window's budget is spent
func (l *RedisAttemptLimiter) Allow(ctx context.Context, key string) error {
	redisKey := "reset_attempts:" + key
	attempts, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return err
	}
	// Set expiry if first attempt
	if attempts == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	if attempts > l.max {
		return ErrTooManyAttempts
	}
	return nil
}

// Reset clears the counter, used after a successful reset
func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, "reset_attempts:"+key).Err()
}
