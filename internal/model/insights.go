package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Insights aggregates inventory totals for the dashboard
type Insights struct {
	TotalCategories          int64              `json:"total_categories"`
	TotalInventories         int64              `json:"total_inventories"`
	TotalPrice               decimal.Decimal    `json:"total_price"`
	TotalStockValue          decimal.Decimal    `json:"total_stock_value"`
	TotalInventoryByCategory []CategoryQuantity `json:"total_inventory_by_category"`
	RequestsByStatus         map[string]int64   `json:"requests_by_status"`
	StartDate                *time.Time         `json:"start_date,omitempty"`
	EndDate                  *time.Time         `json:"end_date,omitempty"`
}

// CategoryQuantity is the summed stock of one category
type CategoryQuantity struct {
	CategoryName  string `json:"category_name"`
	TotalQuantity int64  `json:"total_quantity"`
}
