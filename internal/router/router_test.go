package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *Router {
	return NewRouter(nil, nil, nil, nil, &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"https://greenmomguide.com"}},
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]error
		wantStatus int
		wantState  string
	}{
		{name: "no checks", wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "all ok", checks: map[string]error{"database": nil, "redis": nil}, wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "database down", checks: map[string]error{"database": errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			for name, err := range tt.checks {
				err := err
				r.AddHealthCheck(name, func(context.Context) error { return err })
			}

			w := httptest.NewRecorder()
			r.Setup().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			for name, err := range tt.checks {
				if err != nil {
					assert.Equal(t, err.Error(), body.Checks[name])
				} else {
					assert.Equal(t, "ok", body.Checks[name])
				}
			}
		})
	}
}

func TestCORS(t *testing.T) {
	engine := newTestRouter().Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/review", nil)
	req.Header.Set("Origin", "https://greenmomguide.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://greenmomguide.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/review", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
