// Package http provides the HTTP server implementation and request handlers.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/ynpsss/labrador/internal/audit"
)

// CustomLoggerMiddleware logs HTTP requests with slog and propagates the
// request id into the request context for the audit trail.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := requestid.Get(c)
		if rid != "" {
			ctx := audit.WithRequestID(c.Request.Context(), rid)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", rid),
		)
	}
}
