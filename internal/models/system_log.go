package models

import "time"

// SystemLog is one audited admin mutation.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"` // info, warning, error
	Resource  string    `gorm:"size:100;index" json:"resource"`
	Action    string    `gorm:"size:50;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    int       `json:"status"`
	UserID    *uint     `json:"userId"`
	RequestID string    `gorm:"size:64;index" json:"requestId"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"userAgent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (SystemLog) TableName() string { return "system_logs" }
