package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock status values derived from quantity
const (
	StockInStock    = "In Stock"
	StockOutOfStock = "Out of Stock"
)

// StockStatus derives the display status of an item from its quantity
func StockStatus(quantity int) string {
	if quantity > 0 {
		return StockInStock
	}
	return StockOutOfStock
}

// Category groups inventory items
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InventoryItem represents a stock-keeping unit
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description  string          `gorm:"type:text" json:"description"`
	Quantity     int             `gorm:"type:int;not null;default:0" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	PurchaseDate time.Time       `gorm:"not null;index" json:"purchase_date"`
	Supplier     string          `gorm:"type:varchar(255)" json:"supplier"`
	Status       string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeSave keeps Status consistent with Quantity on every struct write
func (i *InventoryItem) BeforeSave(tx *gorm.DB) error {
	i.Status = StockStatus(i.Quantity)
	return nil
}

// Movement types
const (
	MovementIn     = "IN"
	MovementOut    = "OUT"
	MovementAdjust = "ADJUST"
)

// StockMovement records every quantity change of an item
type StockMovement struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	RequestID       *uuid.UUID `gorm:"type:uuid;index" json:"request_id"` // set for approvals only
	Type            string     `gorm:"type:varchar(10);not null" json:"type"`
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time  `json:"created_at"`
}
