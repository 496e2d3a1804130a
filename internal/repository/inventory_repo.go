package repository

import (
	"context"

	"inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByName(ctx context.Context, name string) (*model.InventoryItem, error)
	FindByNameFold(ctx context.Context, name string, categoryID uuid.UUID) ([]model.InventoryItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.InventoryItem, error)
	List(ctx context.Context, offset, limit int, search string) ([]model.InventoryItem, int64, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.InventoryItem, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	ExistsByName(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	Withdraw(ctx context.Context, id uuid.UUID, quantity int) (int, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Omit("Category").Create(item).Error
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Omit("Category").Save(item).Error
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	// Requests keep their snapshot name; the reference is cleared as ON DELETE SET NULL would
	if err := db.Model(&model.InventoryRequest{}).
		Where("inventory_item_id = ?", id).
		Update("inventory_item_id", nil).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := forUpdate(ctx, r.db).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByName(ctx context.Context, name string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByNameFold returns the items of a category whose name matches case-insensitively
func (r *inventoryRepository) FindByNameFold(ctx context.Context, name string, categoryID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := GetDB(ctx, r.db).
		Where("LOWER(name) = LOWER(?) AND category_id = ?", name, categoryID).
		Find(&items).Error
	return items, err
}

func (r *inventoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if len(ids) == 0 {
		return items, nil
	}
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *inventoryRepository) List(ctx context.Context, offset, limit int, search string) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryItem{})
	if search != "" {
		db = db.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Category").Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := GetDB(ctx, r.db).Preload("Category").
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *inventoryRepository) ExistsByName(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exclude).
		Count(&count).Error
	return count > 0, err
}

// Withdraw removes quantity from an item only if enough stock is left and
// returns the new quantity. ErrStaleWrite means the guard did not hold.
func (r *inventoryRepository) Withdraw(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	db := GetDB(ctx, r.db)

	var item model.InventoryItem
	if err := db.Select("quantity").First(&item, "id = ?", id).Error; err != nil {
		return 0, err
	}
	after := item.Quantity - quantity

	res := db.Model(&model.InventoryItem{}).
		Where("id = ? AND quantity = ? AND quantity >= ?", id, item.Quantity, quantity).
		Updates(map[string]interface{}{
			"quantity": after,
			"status":   model.StockStatus(after),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 1 {
		return 0, ErrStaleWrite
	}
	return after, nil
}
