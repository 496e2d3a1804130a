package model

import (
	"time"

	"github.com/google/uuid"
)

// Department is an organizational unit that requests and holds inventory
type Department struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string             `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Email     string             `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string             `gorm:"type:varchar(255);not null" json:"-"`
	Phone     string             `gorm:"type:varchar(30)" json:"phone"`
	Requests  []InventoryRequest `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE;" json:"inventory_requests"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}
