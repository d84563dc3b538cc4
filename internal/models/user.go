package models

import "time"

const RoleAdmin = "admin"

// User is a credential record. Only the single admin exists today.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role         string    `gorm:"size:50;not null;default:admin" json:"role"`
	ProfileImage string    `gorm:"size:500" json:"profileImage"`
	// AdminSlot is 1 for the admin and NULL otherwise; the unique index turns
	// the single-admin rule into a storage constraint.
	AdminSlot *int      `gorm:"uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserSummary is the public view returned alongside tokens.
type UserSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}
