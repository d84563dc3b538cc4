package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robaadekings/Robert-portifolio-website/internal/config"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/internal/media/mediatest"
	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/internal/utils"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testFolder = "portfolio-projects"

func init() {
	utils.SetJWTSecret("services-test-secret")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.Open(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, gormlogger.Silent)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestGateway(t *testing.T) (*media.Gateway, *mediatest.Host, string) {
	t.Helper()
	host := mediatest.New()
	dir := t.TempDir()
	return media.NewGateway(host, dir, media.Limits{MaxFileBytes: 5 << 20, MaxFiles: 5}), host, dir
}

// stageImages writes n PNG files straight into dir, as Stage would.
func stageImages(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, "staged-"+string(rune('a'+i))+".png")
		if err := os.WriteFile(p, mediatest.PNG, 0600); err != nil {
			t.Fatalf("write staged file: %v", err)
		}
		paths = append(paths, p)
	}
	return paths
}

func boolPtr(b bool) *bool { return &b }

type gatewayParts struct {
	host *mediatest.Host
	dir  string
}
