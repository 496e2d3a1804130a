package repository

import (
	"context"

	"inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
	FindByIDWithRequests(ctx context.Context, id uuid.UUID) (*model.Department, error)
	FindByEmail(ctx context.Context, email string) (*model.Department, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, offset, limit int) ([]model.Department, int64, error)
	ListWithRequests(ctx context.Context) ([]model.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	return GetDB(ctx, r.db).Create(dept).Error
}

// Update saves the department columns only; requests are owned by RequestRepository
func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) error {
	return GetDB(ctx, r.db).Omit("Requests").Save(dept).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	// Explicit child delete keeps SQLite (foreign keys off by default) consistent with Postgres CASCADE
	if err := db.Where("department_id = ?", id).Delete(&model.InventoryRequest{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Department{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *departmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	if err := GetDB(ctx, r.db).First(&dept, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) FindByIDWithRequests(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	err := GetDB(ctx, r.db).
		Preload("Requests", func(db *gorm.DB) *gorm.DB {
			return db.Order("requested_at DESC")
		}).
		First(&dept, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) FindByEmail(ctx context.Context, email string) (*model.Department, error) {
	var dept model.Department
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) ExistsByNameOrEmail(ctx context.Context, name, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Department{}).
		Where("(name = ? OR email = ?) AND id <> ?", name, email, exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *departmentRepository) List(ctx context.Context, offset, limit int) ([]model.Department, int64, error) {
	var depts []model.Department
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Department{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&depts).Error; err != nil {
		return nil, 0, err
	}

	return depts, total, nil
}

func (r *departmentRepository) ListWithRequests(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := GetDB(ctx, r.db).
		Preload("Requests", func(db *gorm.DB) *gorm.DB {
			return db.Order("requested_at DESC")
		}).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}
