package middleware

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/logger"
	"github.com/Conceptual-Machines/melodycraft-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID   = "X-Request-ID"
	unmatchedEndpoint = "unmatched"
)

// RequestTracking assigns a request id, logs one line per request, and
// reports the request to recorder. A valid upstream X-Request-ID is kept.
func RequestTracking(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		// Routes, not raw paths, so metrics stay low-cardinality
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedEndpoint
		}

		fields := logger.Fields{
			"request_id":  requestID,
			"duration_ms": duration.Milliseconds(),
			"status_code": status,
			"method":      c.Request.Method,
			"endpoint":    endpoint,
			"client_ip":   c.ClientIP(),
		}
		if callerID, ok := CallerID(c); ok {
			fields["caller"] = callerID
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed with server error", nil, fields)
		case status >= http.StatusBadRequest:
			logger.Warn("Request failed with client error", fields)
		default:
			logger.Info("Request completed", fields)
		}

		if recorder != nil {
			recorder.RecordAPIRequest(c.Request.Context(), endpoint, status, duration)
		}
	}
}
