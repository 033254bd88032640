package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	loginLimitWindow = 15 * time.Minute
	loginLimitMax    = 10
)

// LoginLimiter caps login attempts per client IP using a Redis counter so
// the limit holds across instances. Redis outages fail open: a broken
// limiter should not lock everyone out.
func LoginLimiter(rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := ClientIP(c)
			key := fmt.Sprintf("loginlimit:%s", ip)
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("login limiter unavailable", zap.Error(err))
				return next(c)
			}
			if count == 1 {
				if err := rdb.Expire(ctx, key, loginLimitWindow).Err(); err != nil {
					log.Warn("login limiter expire failed", zap.Error(err))
				}
			}
			if count > loginLimitMax {
				log.Warn("login rate limit reached",
					zap.String("ip", ip), zap.Int64("attempts", count))
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"message": "Too many login attempts from this IP, please try again after 15 minutes",
				})
			}
			return next(c)
		}
	}
}
