package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey string

const TraceIDKey ctxKey = "trace_id"

// TraceID reuses an incoming X-Request-ID or makes a new one, and exposes it on
// the response, the echo context and the request context.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(echo.HeaderXRequestID)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, traceID)
			c.Set(string(TraceIDKey), traceID)
			c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), TraceIDKey, traceID)))

			return next(c)
		}
	}
}

func TraceIDFromContext(ctx context.Context) string {
	if v := ctx.Value(TraceIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
