package main

import (
	"context"
	"time"

	"github.com/robaadekings/Robert-portifolio-website/internal/cache"
	"github.com/robaadekings/Robert-portifolio-website/internal/config"
	"github.com/robaadekings/Robert-portifolio-website/internal/handlers"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/internal/services"
	"github.com/robaadekings/Robert-portifolio-website/internal/utils"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	gateway        *media.Gateway
	projectCache   cache.ProjectCache
	authService    *services.AuthService
	systemLog      *services.SystemLogService
	maintenance    *services.MaintenanceService
	authHandler    *handlers.AuthHandler
	projectHandler *handlers.ProjectHandler
	messageHandler *handlers.MessageHandler
	healthHandler  *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, image host,
// cache, services and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	db, err := models.Open(&cfg.Database, models.LogLevelFor(cfg.Server.Mode))
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	host, err := media.NewHost(cfg.Cloudinary)
	if err != nil {
		logger.Fatalf("Failed to initialize image host: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	projectCache, err := cache.New(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Project cache disabled")
		projectCache = cache.Noop{}
	}

	svc := newAppServices(cfg, db, host, projectCache)

	if err := svc.maintenance.StartScheduler(cfg.Upload.SweepCron); err != nil {
		logger.Fatalf("Failed to start maintenance scheduler: %v", err)
	}

	return svc
}

// newAppServices wires services and handlers on already-open infrastructure.
func newAppServices(cfg *config.Config, db *gorm.DB, host media.Host, projectCache cache.ProjectCache) *appServices {
	gateway := media.NewGateway(host, cfg.Upload.TempDir, media.Limits{
		MaxFileBytes: cfg.Upload.MaxFileBytes(),
		MaxFiles:     cfg.Upload.MaxFiles,
	})

	authService := services.NewAuthService(db, &cfg.JWT, gateway, cfg.Cloudinary.ProfileFolder)
	projectService := services.NewProjectService(db, gateway, projectCache, cfg.Cloudinary.ProjectFolder)
	messageService := services.NewMessageService(db)
	systemLog := services.NewSystemLogService(db)
	maintenance := services.NewMaintenanceService(
		gateway.TempDir(),
		time.Duration(cfg.Upload.TempTTLHours)*time.Hour,
		systemLog,
		cfg.Log.AuditRetentionDays,
	)

	return &appServices{
		gateway:        gateway,
		projectCache:   projectCache,
		authService:    authService,
		systemLog:      systemLog,
		maintenance:    maintenance,
		authHandler:    handlers.NewAuthHandler(authService, gateway),
		projectHandler: handlers.NewProjectHandler(projectService, gateway),
		messageHandler: handlers.NewMessageHandler(messageService),
		healthHandler:  handlers.NewHealthHandler(db, projectCache),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.maintenance.StopScheduler()
	logger.Info().Msg("Maintenance scheduler stopped")

	if rc, ok := s.projectCache.(*cache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}
