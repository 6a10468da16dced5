package models

import "time"

// User represents a dashboard account.
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	DisplayName      string     `json:"display_name"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Settings   *UserSettings `gorm:"foreignKey:UserID" json:"settings,omitempty"`
	Strategies []Strategy    `gorm:"foreignKey:UserID" json:"strategies,omitempty"`
}
