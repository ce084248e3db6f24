package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
)

const TraceIDHeader = "X-Trace-Id"

// AttachTraceID puts a trace id into the request context so every log line
// emitted while handling the request carries it. An incoming X-Trace-Id is
// honored; otherwise one is generated.
func AttachTraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := logger.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(TraceIDHeader, traceID)

		c.Next()
	}
}
