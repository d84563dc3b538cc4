package main

import (
	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/config"
	"github.com/robaadekings/Robert-portifolio-website/internal/middleware"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices, cfg *config.Config) {
	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))

	// Rate limiter for public write routes
	publicLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	audit := middleware.AuditLog(svc.systemLog)
	uploadLimits := middleware.UploadLimits(svc.gateway.Limits())

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", publicLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/register-admin", publicLimiter.Middleware(), audit, svc.authHandler.RegisterAdmin)
		}

		// Public reads and the contact form
		api.GET("/projects", svc.projectHandler.List)
		api.GET("/projects/:id", svc.projectHandler.GetByID)
		api.POST("/messages", publicLimiter.Middleware(), svc.messageHandler.Create)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(svc.authService))
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/upload-profile", audit, uploadLimits, svc.authHandler.UploadProfile)
		}

		// Admin routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(svc.authService), middleware.AdminRequired(), audit)
		{
			// Projects
			admin.POST("/projects", uploadLimits, svc.projectHandler.Create)
			admin.PUT("/projects/:id", uploadLimits, svc.projectHandler.Update)
			admin.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Messages
			admin.GET("/messages", svc.messageHandler.List)
			admin.DELETE("/messages/:id", svc.messageHandler.Delete)
			admin.PATCH("/messages/:id/read", svc.messageHandler.MarkRead)
		}
	}
}
