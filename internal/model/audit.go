package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterUser     = "REGISTER_USER"
	ActionUpdateProfile    = "UPDATE_PROFILE"
	ActionResetPassword    = "RESET_PASSWORD"
	ActionCreateDepartment = "CREATE_DEPARTMENT"
	ActionUpdateDepartment = "UPDATE_DEPARTMENT"
	ActionDeleteDepartment = "DELETE_DEPARTMENT"
	ActionCreateCategory   = "CREATE_CATEGORY"
	ActionUpdateCategory   = "UPDATE_CATEGORY"
	ActionDeleteCategory   = "DELETE_CATEGORY"
	ActionCreateItem       = "CREATE_ITEM"
	ActionRestockItem      = "RESTOCK_ITEM"
	ActionUpdateItem       = "UPDATE_ITEM"
	ActionDeleteItem       = "DELETE_ITEM"

	// Request workflow actions
	ActionSubmitRequest  = "SUBMIT_REQUEST"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"
)

// Actor types
const (
	ActorAdmin      = "admin"
	ActorDepartment = "department"
	ActorSystem     = "system"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // nil for system jobs
	ActorType  string     `gorm:"type:varchar(20);not null" json:"actor_type"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
