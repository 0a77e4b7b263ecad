package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request with zap once it has been handled. The
// level follows the status class.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RequestLogger requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		// The OAuth callback query carries the authorization code.
		if query != "" && path != "/auth/callback" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("gin_errors", c.Errors.String()))
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			logger.Error("Incoming Request", fields...)
		case statusCode >= http.StatusBadRequest:
			logger.Warn("Incoming Request", fields...)
		default:
			logger.Info("Incoming Request", fields...)
		}
	}
}
