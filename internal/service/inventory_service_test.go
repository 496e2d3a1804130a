package service

import (
	"context"
	"testing"
	"time"

	"inventory-api/internal/model"
	"inventory-api/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRequest(categoryID uuid.UUID, name string, quantity int, price string) ItemRequest {
	return ItemRequest{
		Name:         name,
		Category:     categoryID.String(),
		Quantity:     quantity,
		Price:        decimal.RequireFromString(price),
		PurchaseDate: "2024-03-01",
		Supplier:     "Acme",
	}
}

func TestCreateItem_MergesMatchingStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Office")
	paper := f.item(t, cat.ID, "Paper", 10, "2.50")
	assert.Equal(t, model.StockInStock, paper.Status)
	require.NotNil(t, paper.Category)
	assert.Equal(t, "Office", paper.Category.Name)

	req := itemRequest(cat.ID, "paper", 5, "2.5")
	req.PurchaseDate = "2024-04-15"
	merged, wasMerged, err := f.inventory.Create(ctx, f.admin(), req)
	require.NoError(t, err)
	assert.True(t, wasMerged)
	assert.Equal(t, paper.ID, merged.ID)
	assert.Equal(t, 15, merged.Quantity)
	assert.Equal(t, "Paper", merged.Name)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), merged.PurchaseDate.UTC())

	items, total, err := f.inventory.List(ctx, pagination.New(1, 20), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	movements, err := f.inventory.Movements(ctx, paper.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, 5, movements[1].QuantityChanged)
	assert.Equal(t, 15, movements[1].StockAfter)

	logs, _, err := f.audit.GetAuditLogs(ctx, pagination.New(1, 20), model.ActionRestockItem)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, paper.ID.String(), logs[0].EntityID)
}

func TestCreateItem_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	office := f.category(t, "Office")
	kitchen := f.category(t, "Kitchen")
	f.item(t, office.ID, "Paper", 10, "2.50")

	tests := []struct {
		name    string
		req     ItemRequest
		wantErr error
	}{
		{"same name different price", itemRequest(office.ID, "Paper", 1, "3.00"), ErrConflict},
		{"same name different category", itemRequest(kitchen.ID, "PAPER", 1, "2.50"), ErrConflict},
		{"zero quantity", itemRequest(office.ID, "Pens", 0, "1.00"), ErrValidation},
		{"zero price", itemRequest(office.ID, "Pens", 1, "0"), ErrValidation},
		{"negative price", itemRequest(office.ID, "Pens", 1, "-1"), ErrValidation},
		{"unknown category", itemRequest(uuid.New(), "Pens", 1, "1.00"), ErrNotFound},
		{"missing name", itemRequest(office.ID, "", 1, "1.00"), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.inventory.Create(ctx, f.admin(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("bad purchase date", func(t *testing.T) {
		req := itemRequest(office.ID, "Pens", 1, "1.00")
		req.PurchaseDate = "yesterday"
		_, _, err := f.inventory.Create(ctx, f.admin(), req)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateItem_DerivesStatusAndRecordsAdjustment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Office")
	paper := f.item(t, cat.ID, "Paper", 10, "2.50")

	updated, err := f.inventory.Update(ctx, f.admin(), paper.ID, itemRequest(cat.ID, "Paper", 0, "2.50"))
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, model.StockOutOfStock, updated.Status)

	stock, err := f.inventory.CheckStock(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StockOutOfStock, stock.StockStatus)
	assert.Equal(t, 0, stock.Quantity)

	movements, err := f.inventory.Movements(ctx, paper.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, model.MovementAdjust, movements[1].Type)
	assert.Equal(t, -10, movements[1].QuantityChanged)

	// Unchanged quantity adds no movement
	_, err = f.inventory.Update(ctx, f.admin(), paper.ID, itemRequest(cat.ID, "Copy Paper", 0, "2.75"))
	require.NoError(t, err)
	movements, err = f.inventory.Movements(ctx, paper.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	f.item(t, cat.ID, "Pens", 5, "1.00")
	_, err = f.inventory.Update(ctx, f.admin(), paper.ID, itemRequest(cat.ID, "pens", 1, "1.00"))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.inventory.Update(ctx, f.admin(), uuid.New(), itemRequest(cat.ID, "Stapler", 1, "1.00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Office")
	paper := f.item(t, cat.ID, "Paper", 10, "2.50")

	deleted, err := f.inventory.Delete(ctx, f.admin(), paper.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paper", deleted.Name)

	_, err = f.inventory.Get(ctx, paper.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.inventory.Delete(ctx, f.admin(), paper.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListItems_SearchAndCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	office := f.category(t, "Office")
	kitchen := f.category(t, "Kitchen")
	f.item(t, office.ID, "Paper", 10, "2.50")
	f.item(t, office.ID, "Paper Clips", 100, "0.10")
	f.item(t, kitchen.ID, "Coffee", 3, "12.00")

	items, total, err := f.inventory.List(ctx, pagination.New(1, 20), "paper")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = f.inventory.List(ctx, pagination.New(1, 2), "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	byCategory, err := f.inventory.ListByCategory(ctx, office.ID)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "Paper", byCategory[0].Name)
	assert.Equal(t, "Paper Clips", byCategory[1].Name)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-03-01", "2024-03-01T00:00:00", "2024-03-01T00:00:00Z"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got, in)
	}
	_, err := ParseDate("03/01/2024")
	assert.ErrorIs(t, err, ErrValidation)
}
