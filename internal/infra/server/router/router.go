// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pj-finance/backend/internal/integration/entrypoint/controller"
	"github.com/pj-finance/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	summaryController  *controller.SummaryController
	refreshRateLimiter *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	summaryController *controller.SummaryController,
	refreshRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		summaryController:  summaryController,
		refreshRateLimiter: refreshRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Client routes (require authentication)
		if r.summaryController != nil && r.authMiddleware != nil {
			clients := v1.Group("/clients/:client_id")
			clients.Use(r.authMiddleware.Authenticate())
			{
				clients.GET("/bank-accounts/:bank_account_id/summary", r.summaryController.GetSummary)

				refresh := []gin.HandlerFunc{r.summaryController.RefreshSnapshots}
				if r.refreshRateLimiter != nil {
					refresh = append([]gin.HandlerFunc{r.refreshRateLimiter.Middleware()}, refresh...)
				}
				clients.POST("/bank-summary-snapshots/refresh", refresh...)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
