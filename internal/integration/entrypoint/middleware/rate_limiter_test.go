package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rl *RateLimiter, organizationID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if organizationID != "" {
			c.Set(string(OrganizationIDKey), organizationID)
		}
		c.Next()
	})
	r.Use(rl.Middleware())
	r.POST("/refresh", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Run("blocks requests over the limit", func(t *testing.T) {
		rl := NewRateLimiterWithConfig(2, time.Minute)
		router := newLimitedRouter(rl, "org-1")

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
			codes = append(codes, w.Code)
			if i == 2 && w.Header().Get("Retry-After") == "" {
				t.Error("expected Retry-After header on rejected request")
			}
		}

		expected := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
		for i := range expected {
			if codes[i] != expected[i] {
				t.Errorf("request %d: expected status %d, got %d", i+1, expected[i], codes[i])
			}
		}
	})

	t.Run("organizations are limited independently", func(t *testing.T) {
		rl := NewRateLimiterWithConfig(1, time.Minute)

		for _, org := range []string{"org-1", "org-2"} {
			w := httptest.NewRecorder()
			newLimitedRouter(rl, org).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
			if w.Code != http.StatusOK {
				t.Errorf("expected first request of %s to pass, got %d", org, w.Code)
			}
		}
	})

	t.Run("window resets after expiry", func(t *testing.T) {
		now := time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)
		rl := NewRateLimiterWithConfig(1, time.Minute)
		rl.clock = func() time.Time { return now }

		if ok, _ := rl.allow("org:org-1"); !ok {
			t.Fatal("expected first request to pass")
		}
		if ok, retry := rl.allow("org:org-1"); ok || retry != time.Minute {
			t.Fatalf("expected rejection with 1m retry, got ok=%v retry=%s", ok, retry)
		}

		now = now.Add(61 * time.Second)
		if ok, _ := rl.allow("org:org-1"); !ok {
			t.Error("expected request after window expiry to pass")
		}
	})
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithConfig(5, time.Minute)
	rl.clock = func() time.Time { return now }

	rl.allow("org:a")
	now = now.Add(2 * time.Minute)
	rl.allow("org:b")
	rl.Cleanup()

	if _, ok := rl.windows["org:a"]; ok {
		t.Error("expected expired window to be removed")
	}
	if _, ok := rl.windows["org:b"]; !ok {
		t.Error("expected live window to be kept")
	}
}
