package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
	"github.com/gin-gonic/gin"
)

const (
	apiVersion = "1.0.0"

	bytesPerMB      = 1024 * 1024
	uptimePrecision = 10 * time.Millisecond
)

// HintInfo describes the configured hint provider
type HintInfo struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

type ComposerInfo struct {
	Moods       []string `json:"moods"`
	Instruments []string `json:"instruments"`
	MinMeasures int      `json:"min_measures"`
	MaxMeasures int      `json:"max_measures"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	NumGC        uint32 `json:"num_gc"`
}

type MetricsResponse struct {
	Status     string       `json:"status"`
	Version    string       `json:"version"`
	APIVersion string       `json:"api_version"`
	StartedAt  time.Time    `json:"started_at"`
	Uptime     string       `json:"uptime"`
	Runtime    RuntimeStats `json:"runtime"`
	Composer   ComposerInfo `json:"composer"`
	Hints      HintInfo     `json:"hints"`
}

type MetricsHandler struct {
	startTime time.Time
	version   string
	hints     HintInfo
	composer  ComposerInfo
}

func NewMetricsHandler(version string, hints HintInfo) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		hints:     hints,
		composer:  describeComposer(),
	}
}

// describeComposer snapshots the constant tables once; they never change at runtime
func describeComposer() ComposerInfo {
	info := ComposerInfo{
		MinMeasures: composer.MinMeasures,
		MaxMeasures: composer.MaxMeasures,
	}
	for _, p := range composer.Profiles() {
		info.Moods = append(info.Moods, string(p.Name))
	}
	for _, inst := range composer.Instruments() {
		info.Instruments = append(info.Instruments, inst.Name)
	}
	return info
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, MetricsResponse{
		Status:     "healthy",
		Version:    h.version,
		APIVersion: apiVersion,
		StartedAt:  h.startTime.UTC(),
		Uptime:     time.Since(h.startTime).Round(uptimePrecision).String(),
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   mem.Alloc / bytesPerMB,
			NumGC:        mem.NumGC,
		},
		Composer: h.composer,
		Hints:    h.hints,
	})
}
