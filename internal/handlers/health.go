package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/cache"
	"gorm.io/gorm"
)

// HealthHandler reports the status of the database and project cache.
type HealthHandler struct {
	db    *gorm.DB
	cache cache.ProjectCache
}

func NewHealthHandler(db *gorm.DB, projectCache cache.ProjectCache) *HealthHandler {
	if projectCache == nil {
		projectCache = cache.Noop{}
	}
	return &HealthHandler{db: db, cache: projectCache}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	status := http.StatusOK

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}
	if dbStatus != "ok" {
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	// The cache is optional; a failing cache degrades but does not fail health.
	cacheStatus := "disabled"
	if h.cache.Enabled() {
		cacheStatus = "ok"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			cacheStatus = "error: " + err.Error()
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "portfolio",
		"components": gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
	})
}
