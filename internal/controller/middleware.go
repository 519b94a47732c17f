package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// requestLogger tags every request with an id and logs method, path, status
// and latency.
func (c *Controller) requestLogger() gin.HandlerFunc {
	return func(gc *gin.Context) {
		requestID := gc.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		gc.Writer.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		gc.Next()

		c.logger.Info("Request handled",
			zap.String("request_id", requestID),
			zap.String("method", gc.Request.Method),
			zap.String("path", gc.Request.URL.Path),
			zap.Int("status", gc.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
