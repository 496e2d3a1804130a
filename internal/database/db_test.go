package database

import (
	"testing"

	"inventory-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionSQLiteMigrates(t *testing.T) {
	db, err := NewConnection("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range []interface{}{&model.User{}, &model.Department{}, &model.InventoryRequest{}, &model.InventoryItem{}, &model.Category{}, &model.StockMovement{}, &model.AuditLog{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestNewConnectionUnknownDriver(t *testing.T) {
	_, err := NewConnection("oracle", "")
	assert.Error(t, err)
}
