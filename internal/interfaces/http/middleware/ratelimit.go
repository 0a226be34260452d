package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

// RateLimiter throttles requests per client IP and route using a fixed
// window counter in Redis. When Redis is unavailable the middleware fails
// open so an infrastructure outage cannot lock everyone out.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logger.Interface
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Middleware returns the gin handler enforcing the limit.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := r.client.Incr(ctx, key).Result()
		if err != nil {
			r.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			r.client.Expire(ctx, key, r.window)
		}

		if count > int64(r.limit) {
			utils.ErrorResponse(c, 429, "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
