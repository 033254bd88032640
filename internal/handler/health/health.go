package health

import (
	"net/http"

	"hospitofind/internal/api"
	"hospitofind/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// @Summary     Liveness and dependency check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string
// @Failure     503 {object} api.ErrorResponse
// @Router      /healthz [get]
func Handler(db database.DB, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "database unreachable"})
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "redis unreachable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
