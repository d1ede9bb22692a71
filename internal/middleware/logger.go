package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs each HTTP request with method, path, status, and latency.
// Server errors are also written to errLog.
func Logger(errLog *zap.Logger) gin.HandlerFunc {
	if errLog == nil {
		errLog = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(ContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if p, ok := GetPrincipal(c); ok {
			fields = append(fields, zap.String("tenant_id", p.TenantID), zap.String("user_id", p.UserID))
		}

		log := zap.L()
		switch {
		case status >= http.StatusInternalServerError:
			if errs := c.Errors.String(); errs != "" {
				fields = append(fields, zap.String("errors", errs))
			}
			log.Error("request failed", fields...)
			errLog.Error("request failed", fields...)
		case c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/metrics":
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery recovers from panics, records them in errLog and returns a 500
// envelope.
func Recovery(errLog *zap.Logger) gin.HandlerFunc {
	if errLog == nil {
		errLog = zap.NewNop()
	}
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		fields := []zap.Field{
			zap.String("request_id", c.GetString(ContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		}
		zap.L().Error("panic recovered", fields...)
		errLog.Error("panic recovered", fields...)
		abortJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	})
}
