package middleware

import (
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	authModeGateway = "gateway"
	anonymousUser   = "anonymous"

	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	callerIDKey   = "caller_id"
	callerRoleKey = "caller_role"
)

// Auth selects the auth middleware for AUTH_MODE. Anything other than
// "gateway" runs without authentication.
func Auth(mode string) gin.HandlerFunc {
	if strings.EqualFold(mode, authModeGateway) {
		return GatewayAuth()
	}
	return NoAuth()
}

// GatewayAuth trusts the caller identity forwarded by an upstream gateway.
// Only safe when the API is not reachable except through that gateway.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := strings.TrimSpace(c.GetHeader(headerUserID))
		if callerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:     "missing " + headerUserID + " header from gateway",
				RequestID: c.GetString("request_id"),
			})
			return
		}

		c.Set(callerIDKey, callerID)
		c.Set(callerRoleKey, c.GetHeader(headerUserRole))
		c.Next()
	}
}

// NoAuth tags every request as the anonymous caller so usage logs stay uniform
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerIDKey, anonymousUser)
		c.Next()
	}
}

// CallerID returns the identity set by Auth, if any
func CallerID(c *gin.Context) (string, bool) {
	id := c.GetString(callerIDKey)
	return id, id != ""
}

// CallerRole returns the gateway-supplied role, empty when unknown
func CallerRole(c *gin.Context) string {
	return c.GetString(callerRoleKey)
}
