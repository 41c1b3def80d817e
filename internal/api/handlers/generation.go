package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/api/middleware"
	"github.com/Conceptual-Machines/melodycraft-api/internal/logger"
	"github.com/Conceptual-Machines/melodycraft-api/internal/midifile"
	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"github.com/Conceptual-Machines/melodycraft-api/internal/services"
	"github.com/gin-gonic/gin"
)

type GenerationHandler struct {
	genService *services.GenerationService
}

func NewGenerationHandler(genService *services.GenerationService) *GenerationHandler {
	return &GenerationHandler{genService: genService}
}

// Generate composes a sketch and returns it as notation plus a summary
func (h *GenerationHandler) Generate(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}

	start := time.Now()
	requestID := c.GetString("request_id")
	result := h.genService.Compose(c.Request.Context(), req, callerFrom(c, services.FormatABC))

	logger.LogComposition(c, time.Since(start), logger.Fields{
		"mood":      string(result.Params.Mood),
		"measures":  result.Measures,
		"seed":      result.Seed,
		"hint_used": result.HintUsed,
	})

	c.JSON(http.StatusOK, models.NewGenerateResponse(result, req.MeasuresPerLine, requestID))
}

// GenerateMIDI composes a sketch and returns it as a Standard MIDI File attachment
func (h *GenerationHandler) GenerateMIDI(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}

	start := time.Now()
	requestID := c.GetString("request_id")
	result := h.genService.Compose(c.Request.Context(), req, callerFrom(c, services.FormatMIDI))

	data, err := midifile.Bytes(result)
	if err != nil {
		logger.Error("Failed to encode MIDI", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "failed to encode MIDI",
			RequestID: requestID,
		})
		return
	}

	logger.LogComposition(c, time.Since(start), logger.Fields{
		"mood":      string(result.Params.Mood),
		"measures":  result.Measures,
		"seed":      result.Seed,
		"bytes":     len(data),
		"hint_used": result.HintUsed,
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="melodycraft-%d.mid"`, result.Seed))
	c.Header("X-Seed", fmt.Sprintf("%d", result.Seed))
	c.Data(http.StatusOK, midifile.ContentType, data)
}

func bindGenerateRequest(c *gin.Context) (*models.GenerateRequest, bool) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     err.Error(),
			RequestID: c.GetString("request_id"),
		})
		return nil, false
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "prompt must not be empty",
			RequestID: c.GetString("request_id"),
		})
		return nil, false
	}
	return &req, true
}

func callerFrom(c *gin.Context, format string) services.Caller {
	userID, _ := middleware.CallerID(c)
	return services.Caller{
		RequestID: c.GetString("request_id"),
		UserID:    userID,
		Format:    format,
	}
}
