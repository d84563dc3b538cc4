package models

import "time"

// Project is a portfolio entry. Images holds host URLs in display order;
// the first one is the cover.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TechStack   []string  `gorm:"serializer:json;type:text" json:"techStack"`
	Images      []string  `gorm:"serializer:json;type:text" json:"images"`
	GithubURL   string    `gorm:"column:github_url;size:500" json:"githubUrl"`
	LiveURL     string    `gorm:"column:live_url;size:500" json:"liveUrl"`
	Featured    bool      `gorm:"not null;default:false" json:"featured"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }
