package repository

import (
	"context"
	"time"

	"inventory-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateRange bounds item purchase dates. Nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type InsightsRepository interface {
	CountCategories(ctx context.Context) (int64, error)
	ItemTotals(ctx context.Context, r DateRange) (count int64, priceSum, stockValue decimal.Decimal, err error)
	QuantityByCategory(ctx context.Context, r DateRange) ([]model.CategoryQuantity, error)
}

type insightsRepository struct {
	db *gorm.DB
}

func NewInsightsRepository(db *gorm.DB) InsightsRepository {
	return &insightsRepository{db: db}
}

func (d DateRange) apply(db *gorm.DB, column string) *gorm.DB {
	if d.From != nil {
		db = db.Where(column+" >= ?", *d.From)
	}
	if d.To != nil {
		db = db.Where(column+" <= ?", *d.To)
	}
	return db
}

func (r *insightsRepository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Category{}).Count(&count).Error
	return count, err
}

// ItemTotals sums in Go with decimal arithmetic; SQL float sums lose cents on SQLite.
func (r *insightsRepository) ItemTotals(ctx context.Context, dr DateRange) (int64, decimal.Decimal, decimal.Decimal, error) {
	var rows []struct {
		Quantity int
		Price    decimal.Decimal
	}
	db := dr.apply(GetDB(ctx, r.db).Model(&model.InventoryItem{}), "purchase_date")
	if err := db.Select("quantity, price").Scan(&rows).Error; err != nil {
		return 0, decimal.Zero, decimal.Zero, err
	}

	priceSum := decimal.Zero
	stockValue := decimal.Zero
	for _, row := range rows {
		priceSum = priceSum.Add(row.Price)
		stockValue = stockValue.Add(row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))))
	}
	return int64(len(rows)), priceSum, stockValue, nil
}

func (r *insightsRepository) QuantityByCategory(ctx context.Context, dr DateRange) ([]model.CategoryQuantity, error) {
	var result []model.CategoryQuantity
	db := GetDB(ctx, r.db).Table("inventory_items").
		Select("categories.name AS category_name, COALESCE(SUM(inventory_items.quantity), 0) AS total_quantity").
		Joins("JOIN categories ON categories.id = inventory_items.category_id")
	db = dr.apply(db, "inventory_items.purchase_date")
	err := db.Group("categories.name").Order("categories.name ASC").Scan(&result).Error
	return result, err
}
