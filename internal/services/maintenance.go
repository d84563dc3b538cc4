package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
)

// MaintenanceService runs periodic housekeeping: removing stale upload temp
// files left behind by failed or interrupted uploads, and trimming old
// audit rows.
type MaintenanceService struct {
	tempDir       string
	tempTTL       time.Duration
	systemLog     *SystemLogService
	retentionDays int

	cronScheduler *cron.Cron
}

func NewMaintenanceService(tempDir string, tempTTL time.Duration, systemLog *SystemLogService, retentionDays int) *MaintenanceService {
	return &MaintenanceService{
		tempDir:       tempDir,
		tempTTL:       tempTTL,
		systemLog:     systemLog,
		retentionDays: retentionDays,
	}
}

// SweepTempFiles deletes regular files in the temp dir older than the ttl.
// A missing temp dir is not an error.
func (s *MaintenanceService) SweepTempFiles(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < s.tempTTL {
			continue
		}
		p := filepath.Join(s.tempDir, e.Name())
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", p).Msg("[Maintenance] failed to remove stale temp file")
			continue
		}
		removed++
	}
	return removed, nil
}

// RunOnce performs every housekeeping task a single time.
func (s *MaintenanceService) RunOnce() {
	if removed, err := s.SweepTempFiles(time.Now()); err != nil {
		logger.Warn().Err(err).Msg("[Maintenance] temp sweep failed")
	} else if removed > 0 {
		logger.Info().Int("removed", removed).Msg("[Maintenance] removed stale temp uploads")
	}

	if s.systemLog == nil {
		return
	}
	deleted, err := s.systemLog.CleanupOldLogs(s.retentionDays)
	if err != nil {
		logger.Warn().Err(err).Msg("[Maintenance] audit log cleanup failed")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", s.retentionDays).Msg("[Maintenance] cleaned up audit logs")
	}
}

// StartScheduler runs RunOnce immediately and then on the cron spec.
func (s *MaintenanceService) StartScheduler(spec string) error {
	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", spec, err)
	}

	s.RunOnce()
	s.cronScheduler.Start()
	logger.Info().Str("schedule", spec).Msg("[Maintenance] Scheduler started")
	return nil
}

func (s *MaintenanceService) StopScheduler() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
	}
}
