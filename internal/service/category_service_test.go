package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	office := f.category(t, "Office")
	_, err := f.categories.Create(ctx, f.admin(), CategoryRequest{Name: "office"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.categories.Create(ctx, f.admin(), CategoryRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	kitchen := f.category(t, "Kitchen")
	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Kitchen", list[0].Name)

	_, err = f.categories.Update(ctx, f.admin(), kitchen.ID, CategoryRequest{Name: "OFFICE"})
	assert.ErrorIs(t, err, ErrConflict)
	renamed, err := f.categories.Update(ctx, f.admin(), kitchen.ID, CategoryRequest{Name: "Pantry", Description: "Snacks"})
	require.NoError(t, err)
	assert.Equal(t, "Pantry", renamed.Name)

	paper := f.item(t, office.ID, "Paper", 10, "2.50")
	items, err := f.categories.Items(ctx, office.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	err = f.categories.Delete(ctx, f.admin(), office.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.inventory.Delete(ctx, f.admin(), paper.ID)
	require.NoError(t, err)
	require.NoError(t, f.categories.Delete(ctx, f.admin(), office.ID))

	_, err = f.categories.Get(ctx, office.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.categories.Delete(ctx, f.admin(), uuid.New()), ErrNotFound)
	_, err = f.categories.Items(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
