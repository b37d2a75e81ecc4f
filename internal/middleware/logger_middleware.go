package middleware

import (
	"net/http"
	"time"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID берет X-Request-ID из запроса или генерирует новый и возвращает его в ответе.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger - Gin middleware для логирования запросов.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = path + "?" + rawQuery
		}

		c.Next()

		statusCode := c.Writer.Status()
		fields := []any{
			"status_code", statusCode,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"request_id", c.GetString(requestIDKey),
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			log.Errorw("Request handled", fields...)
		case statusCode >= http.StatusBadRequest:
			log.Warnw("Request handled", fields...)
		default:
			log.Infow("Request handled", fields...)
		}
	}
}
