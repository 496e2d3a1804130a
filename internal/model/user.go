package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an administrator of the inventory dashboard
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	ProfilePicture      string     `gorm:"type:text" json:"profile_picture"`
	ResetTokenHash      string     `gorm:"type:varchar(255)" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
