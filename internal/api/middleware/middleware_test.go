package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRecorder struct {
	endpoints []string
	statuses  []int
}

func (r *apiRecorder) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, _ time.Duration) {
	r.endpoints = append(r.endpoints, endpoint)
	r.statuses = append(r.statuses, statusCode)
}
func (r *apiRecorder) RecordHintUsage(context.Context, string, llm.Usage, bool) {}
func (r *apiRecorder) RecordGenerationDuration(context.Context, time.Duration, bool) {}
func (r *apiRecorder) RecordComposition(context.Context, string, int, int) {}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	return router
}

func TestCORS(t *testing.T) {
	router := newTestRouter(CORS([]string{"http://localhost:3000", "https://app.example/"}))
	router.POST("/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"allowed origin", http.MethodPost, "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"trailing slash in config", http.MethodPost, "https://app.example", http.StatusOK, "https://app.example"},
		{"unknown origin", http.MethodPost, "https://evil.example", http.StatusOK, ""},
		{"no origin", http.MethodPost, "", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/generate", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	router := newTestRouter(CORS([]string{"*"}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://anywhere.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestTracking(t *testing.T) {
	recorder := &apiRecorder{}
	router := newTestRouter(RequestTracking(recorder))
	var seen string
	router.GET("/health", func(c *gin.Context) {
		seen = c.GetString("request_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	id := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)

	upstream := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", upstream)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, upstream, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{"/health", "/health", "unmatched"}, recorder.endpoints)
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusNotFound}, recorder.statuses)
}

func TestRecoverWithSentry(t *testing.T) {
	router := newTestRouter(RecoverWithSentry(), NoAuth())
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestAuth(t *testing.T) {
	handler := func(c *gin.Context) {
		id, _ := CallerID(c)
		c.String(http.StatusOK, id+"|"+CallerRole(c))
	}

	t.Run("none", func(t *testing.T) {
		router := newTestRouter(Auth("none"))
		router.GET("/me", handler)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, anonymousUser+"|", w.Body.String())
	})

	t.Run("gateway without headers", func(t *testing.T) {
		router := newTestRouter(Auth("gateway"))
		router.GET("/me", handler)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "X-User-ID")
	})

	t.Run("gateway mode is case-insensitive", func(t *testing.T) {
		router := newTestRouter(Auth("Gateway"))
		router.GET("/me", handler)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("gateway with headers", func(t *testing.T) {
		router := newTestRouter(Auth("gateway"))
		router.GET("/me", handler)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-User-ID", "42")
		req.Header.Set("X-User-Role", "beta")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "42|beta", w.Body.String())
	})
}
