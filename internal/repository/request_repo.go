package repository

import (
	"context"
	"time"

	"inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.InventoryRequest) error
	FindForUpdate(ctx context.Context, departmentID, requestID uuid.UUID) (*model.InventoryRequest, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID, status string) ([]model.InventoryRequest, error)
	AttachItem(ctx context.Context, requestID, itemID uuid.UUID) error
	Transition(ctx context.Context, requestID uuid.UUID, status string, processedAt time.Time, processedBy *uuid.UUID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.InventoryRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

// FindForUpdate loads a request of the given department and locks its row
func (r *requestRepository) FindForUpdate(ctx context.Context, departmentID, requestID uuid.UUID) (*model.InventoryRequest, error) {
	var req model.InventoryRequest
	if err := forUpdate(ctx, r.db).
		Where("id = ? AND department_id = ?", requestID, departmentID).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByDepartment returns the requests of a department newest first, optionally filtered by status
func (r *requestRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID, status string) ([]model.InventoryRequest, error) {
	var reqs []model.InventoryRequest
	query := GetDB(ctx, r.db).Where("department_id = ?", departmentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("requested_at DESC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// AttachItem links a Pending request to the item it was resolved to
func (r *requestRepository) AttachItem(ctx context.Context, requestID, itemID uuid.UUID) error {
	res := GetDB(ctx, r.db).Model(&model.InventoryRequest{}).
		Where("id = ? AND status = ?", requestID, model.RequestPending).
		Update("inventory_item_id", itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrStaleWrite
	}
	return nil
}

// Transition moves a Pending request to status. It is a compare-and-swap on the
// status column: if the request already left Pending, ErrStaleWrite is returned.
func (r *requestRepository) Transition(ctx context.Context, requestID uuid.UUID, status string, processedAt time.Time, processedBy *uuid.UUID) error {
	res := GetDB(ctx, r.db).Model(&model.InventoryRequest{}).
		Where("id = ? AND status = ?", requestID, model.RequestPending).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": processedAt,
			"processed_by": processedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrStaleWrite
	}
	return nil
}

func (r *requestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.InventoryRequest{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{
		model.RequestPending:  0,
		model.RequestApproved: 0,
		model.RequestRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
