package ratelimit

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/config"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// Limiter throttles public intake per client IP using a redis fixed window.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewLimiter constructs the limiter.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, cfg: cfg, logger: logger}
}

// Handle rejects callers that exceed the window budget. Fails open when
// redis is unreachable so intake never depends on the limiter being healthy.
func (l *Limiter) Handle(c *fiber.Ctx) error {
	if l == nil || l.client == nil || !l.cfg.Enabled {
		return c.Next()
	}

	key := fmt.Sprintf("ratelimit:intake:%s", c.IP())
	ctx := c.Context()

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Window()).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	if count > int64(l.cfg.MaxRequests) {
		return apperrors.NewRateLimited("too many submissions, try again later")
	}
	return c.Next()
}
