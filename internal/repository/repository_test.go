package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory-api/internal/database"
	"inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewConnection("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedItem(t *testing.T, db *gorm.DB, name string, quantity int) *model.InventoryItem {
	t.Helper()
	category := &model.Category{Name: name + " category"}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), category))
	item := &model.InventoryItem{
		Name:         name,
		CategoryID:   category.ID,
		Quantity:     quantity,
		Price:        decimal.NewFromInt(2),
		PurchaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewInventoryRepository(db).Create(context.Background(), item))
	return item
}

func TestInventoryRepository_Withdraw(t *testing.T) {
	db := newTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()
	item := seedItem(t, db, "Paper", 5)
	assert.Equal(t, model.StockInStock, item.Status)

	after, err := repo.Withdraw(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, after)

	_, err = repo.Withdraw(ctx, item.ID, 3)
	assert.ErrorIs(t, err, ErrStaleWrite)

	after, err = repo.Withdraw(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, after)

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
	assert.Equal(t, model.StockOutOfStock, stored.Status)

	_, err = repo.Withdraw(ctx, uuid.New(), 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestInventoryRepository_DeleteKeepsRequestSnapshot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	item := seedItem(t, db, "Paper", 5)

	dept := &model.Department{Name: "HR", Email: "hr@example.com", Password: "x"}
	require.NoError(t, NewDepartmentRepository(db).Create(ctx, dept))
	req := &model.InventoryRequest{
		DepartmentID:    dept.ID,
		InventoryItemID: &item.ID,
		ItemName:        item.Name,
		Quantity:        1,
		Status:          model.RequestPending,
		RequestedAt:     time.Now().UTC(),
	}
	requests := NewRequestRepository(db)
	require.NoError(t, requests.Create(ctx, req))

	repo := NewInventoryRepository(db)
	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), gorm.ErrRecordNotFound)

	stored, err := requests.FindForUpdate(ctx, dept.ID, req.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.InventoryItemID)
	assert.Equal(t, "Paper", stored.ItemName)
}

func TestRequestRepository_TransitionIsCompareAndSwap(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dept := &model.Department{Name: "HR", Email: "hr@example.com", Password: "x"}
	require.NoError(t, NewDepartmentRepository(db).Create(ctx, dept))
	requests := NewRequestRepository(db)
	req := &model.InventoryRequest{
		DepartmentID: dept.ID,
		ItemName:     "Paper",
		Quantity:     1,
		Status:       model.RequestPending,
		RequestedAt:  time.Now().UTC(),
	}
	require.NoError(t, requests.Create(ctx, req))

	admin := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, requests.Transition(ctx, req.ID, model.RequestRejected, now, &admin))
	assert.ErrorIs(t, requests.Transition(ctx, req.ID, model.RequestApproved, now, &admin), ErrStaleWrite)

	stored, err := requests.FindForUpdate(ctx, dept.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, stored.Status)
	require.NotNil(t, stored.ProcessedBy)
	assert.Equal(t, admin, *stored.ProcessedBy)

	_, err = requests.FindForUpdate(ctx, uuid.New(), req.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	counts, err := requests.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.RequestRejected])
	assert.Equal(t, int64(0), counts[model.RequestPending])
}

func TestRequestRepository_AttachItemOnlyWhilePending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	item := seedItem(t, db, "Toner", 4)

	dept := &model.Department{Name: "HR", Email: "hr@example.com", Password: "x"}
	require.NoError(t, NewDepartmentRepository(db).Create(ctx, dept))
	requests := NewRequestRepository(db)
	req := &model.InventoryRequest{
		DepartmentID: dept.ID,
		ItemName:     "Toner",
		Quantity:     1,
		Status:       model.RequestPending,
		RequestedAt:  time.Now().UTC(),
	}
	require.NoError(t, requests.Create(ctx, req))

	require.NoError(t, requests.AttachItem(ctx, req.ID, item.ID))
	stored, err := requests.FindForUpdate(ctx, dept.ID, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.InventoryItemID)
	assert.Equal(t, item.ID, *stored.InventoryItemID)

	admin := uuid.New()
	require.NoError(t, requests.Transition(ctx, req.ID, model.RequestRejected, time.Now().UTC(), &admin))
	assert.ErrorIs(t, requests.AttachItem(ctx, req.ID, item.ID), ErrStaleWrite)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	db := newTestDB(t)
	tx := NewTransactionManager(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := categories.Create(txCtx, &model.Category{Name: "Office"}); err != nil {
			return err
		}
		// Nested calls join the outer transaction
		return tx.RunInTx(txCtx, func(inner context.Context) error {
			if err := categories.Create(inner, &model.Category{Name: "Kitchen"}); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
