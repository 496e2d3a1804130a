package model

import (
	"time"

	"github.com/google/uuid"
)

// Request status values. A request leaves Pending exactly once.
const (
	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
)

// InventoryRequest is a department's ask for a quantity of an inventory item.
// ItemName is a snapshot taken at submission so history survives item deletion.
type InventoryRequest struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DepartmentID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"department_id"`
	InventoryItemID *uuid.UUID     `gorm:"type:uuid;index" json:"inventory_item_id"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID;constraint:OnDelete:SET NULL;" json:"-"`
	ItemName        string         `gorm:"type:varchar(255);not null" json:"inventory_item"`
	Quantity        int            `gorm:"type:int;not null" json:"quantity"`
	Status          string         `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	RequestedAt     time.Time      `gorm:"not null;index" json:"requested_at"`
	ProcessedAt     *time.Time     `json:"processed_at"`
	ProcessedBy     *uuid.UUID     `gorm:"type:uuid" json:"processed_by"`
}
