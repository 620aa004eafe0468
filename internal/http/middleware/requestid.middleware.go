package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reqcontext "github.com/kerem-kaynak/tunes/internal/context"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID and stores a logger
// carrying that ID in the request context.
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, requestID)

		requestLogger := logger.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(reqcontext.WithLogger(c.Request.Context(), requestLogger))

		c.Next()

		requestLogger.Info("Request completed", zap.Int("status", c.Writer.Status()))
	}
}
