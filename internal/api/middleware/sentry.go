package middleware

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/logger"
	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const sentryFlushTimeout = 2 * time.Second

// SentryMiddleware attaches a Sentry hub to every request
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry turns a panic into a 500 and reports it with the
// request id and caller attached. Register it before SentryMiddleware.
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			requestID := c.GetString("request_id")
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetRequest(c.Request)
					scope.SetTag("request_id", requestID)
					if callerID, ok := CallerID(c); ok {
						scope.SetUser(sentry.User{ID: callerID})
					}
					if role := CallerRole(c); role != "" {
						scope.SetTag("caller_role", role)
					}
					hub.RecoverWithContext(c.Request.Context(), recovered)
				})
			}

			logger.Error("Panic recovered", nil, logger.Fields{
				"request_id": requestID,
				"error":      recovered,
				"path":       c.Request.URL.Path,
			})

			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "Internal server error",
				RequestID: requestID,
			})
		}()
		c.Next()
	}
}
