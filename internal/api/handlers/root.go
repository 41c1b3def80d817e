package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
	"github.com/gin-gonic/gin"
)

// Root returns a short banner describing the service
func Root(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "MelodyCraft API",
			"version": version,
			"endpoints": []string{
				"POST /generate",
				"POST /generate/midi",
				"GET /api/instruments",
				"GET /health",
				"GET /api/metrics",
			},
		})
	}
}

// Instruments lists the instrument table
func Instruments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"instruments": composer.Instruments()})
}
