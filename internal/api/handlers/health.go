package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dbPingTimeout = 2 * time.Second

type HealthHandler struct {
	db           *gorm.DB
	hintsEnabled bool
}

func NewHealthHandler(db *gorm.DB, hintsEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, hintsEnabled: hintsEnabled}
}

// HealthCheck returns the health status of the API. The composer has no
// dependencies, so a failing database degrades the status without failing it.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := h.databaseStatus(c.Request.Context())

	status := "healthy"
	if dbStatus == "error" {
		status = "degraded"
	}

	hintStatus := "disabled"
	if h.hintsEnabled {
		hintStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": gin.H{"status": dbStatus},
		"hints":    gin.H{"status": hintStatus},
	})
}

func (h *HealthHandler) databaseStatus(ctx context.Context) string {
	if h.db == nil {
		return "disabled"
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return "error"
	}
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error"
	}
	return "connected"
}
