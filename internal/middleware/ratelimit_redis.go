package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRateLimiter is a fixed-window limiter shared by every replica that
// points at the same Redis. A Limit of zero or less disables it.
type RedisRateLimiter struct {
	Redis  *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
	log    *zap.Logger
}

func NewRedisRateLimiter(r *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window, log: logger}
}

func (r *RedisRateLimiter) Handler() fiber.Handler {
	return r.MiddlewareByKey(getIP)
}

func (r *RedisRateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r.Limit <= 0 {
			return c.Next()
		}
		ctx := c.UserContext()
		redisKey := fmt.Sprintf("%s:ratelimit:%s", r.Prefix, keyFunc(c))
		count, err := r.Redis.Incr(ctx, redisKey).Result()
		if err != nil {
			r.log.Error("rate limiter error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "rate limiter error"})
		}
		if count == 1 {
			if err := r.Redis.Expire(ctx, redisKey, r.Window).Err(); err != nil {
				// drop the counter so the key cannot outlive its window
				r.log.Error("rate limiter expire failed", zap.String("key", redisKey), zap.Error(err))
				_ = r.Redis.Del(ctx, redisKey).Err()
			}
		}
		if count > int64(r.Limit) {
			r.log.Warn("rate limit exceeded", zap.String("key", redisKey))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}
