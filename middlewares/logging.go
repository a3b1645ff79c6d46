package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if uid := CurrentUserID(c); uid != "" {
			attrs = append(attrs, "user_id", uid)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			slog.Error("request", attrs...)
		case len(c.Errors) > 0:
			slog.Warn("request", append(attrs, "errors", c.Errors.String())...)
		default:
			slog.Info("request", attrs...)
		}
	}
}

// Recovery turns a panic into a JSON 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
