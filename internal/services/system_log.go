package services

import (
	"encoding/json"
	"time"

	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
	"gorm.io/gorm"
)

// AuditEntry describes one admin mutation.
type AuditEntry struct {
	Resource  string
	Action    string
	Message   string
	Status    int
	UserID    uint
	RequestID string
	IP        string
	UserAgent string
	Extra     map[string]interface{}
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

// Record writes an audit row. Failures are logged only; auditing never
// fails the request it describes.
func (s *SystemLogService) Record(entry AuditEntry) {
	level := "info"
	if entry.Status >= 500 {
		level = "error"
	} else if entry.Status >= 400 {
		level = "warning"
	}

	var extraStr string
	if entry.Extra != nil {
		if b, err := json.Marshal(entry.Extra); err == nil {
			extraStr = string(b)
		}
	}

	var uid *uint
	if entry.UserID > 0 {
		id := entry.UserID
		uid = &id
	}

	row := &models.SystemLog{
		Level:     level,
		Resource:  entry.Resource,
		Action:    entry.Action,
		Message:   entry.Message,
		Status:    entry.Status,
		UserID:    uid,
		RequestID: entry.RequestID,
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(row).Error; err != nil {
		logger.Warn().Err(err).Str("resource", entry.Resource).Msg("failed to write audit log")
	}
}

// CleanupOldLogs deletes logs older than the specified number of days
// Returns the number of deleted records
func (s *SystemLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoffTime := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoffTime).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
