package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthController_Check(t *testing.T) {
	up := func() bool { return true }
	down := func() bool { return false }

	tests := []struct {
		name           string
		db             func() bool
		cache          func() bool
		expectedStatus string
		expectedDB     string
		expectedCache  string
	}{
		{name: "all connected", db: up, cache: up, expectedStatus: "ok", expectedDB: "connected", expectedCache: "connected"},
		{name: "cache disabled", db: up, cache: nil, expectedStatus: "ok", expectedDB: "connected", expectedCache: "disabled"},
		{name: "cache down", db: up, cache: down, expectedStatus: "ok", expectedDB: "connected", expectedCache: "disconnected"},
		{name: "database down", db: down, cache: up, expectedStatus: "degraded", expectedDB: "disconnected", expectedCache: "connected"},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.db, tt.cache).Check)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var response HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if response.Status != tt.expectedStatus {
				t.Errorf("expected status %s, got %s", tt.expectedStatus, response.Status)
			}
			if response.Database != tt.expectedDB {
				t.Errorf("expected database %s, got %s", tt.expectedDB, response.Database)
			}
			if response.Cache != tt.expectedCache {
				t.Errorf("expected cache %s, got %s", tt.expectedCache, response.Cache)
			}
		})
	}
}
