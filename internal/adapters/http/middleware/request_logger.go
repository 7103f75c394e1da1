package middleware

import (
	"time"

	"bakery-backoffice/internal/ports"

	"github.com/labstack/echo/v4"
)

func RequestLogger(logger ports.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			args := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route_pattern", c.Path(),
				"status", c.Response().Status,
				"duration", time.Since(started).String(),
			}
			if p, ok := PrincipalFrom(c); ok {
				args = append(args, "principal_id", p.ID, "role", string(p.Role))
			}
			ctx := c.Request().Context()
			if c.Response().Status >= 500 {
				logger.Error(ctx, "http request", args...)
			} else {
				logger.Info(ctx, "http request", args...)
			}
			return nil
		}
	}
}
