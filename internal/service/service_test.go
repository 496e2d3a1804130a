package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"inventory-api/internal/database"
	"inventory-api/internal/model"
	"inventory-api/internal/notify"
	"inventory-api/internal/repository"
	"inventory-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	tokens    *jwt.Manager
	published *recordingPublisher

	users       UserService
	departments DepartmentService
	inventory   InventoryService
	categories  CategoryService
	insights    InsightsService
	audit       AuditService

	adminID uuid.UUID
}

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

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithOptions(t, UserOptions{ExposeResetToken: true})
}

func newFixtureWithOptions(t *testing.T, opts UserOptions) *fixture {
	t.Helper()
	db := newTestDB(t)

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	itemRepo := repository.NewInventoryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	tokens := jwt.NewManager("test-secret", time.Hour)
	published := &recordingPublisher{}

	return &fixture{
		db:          db,
		tokens:      tokens,
		published:   published,
		users:       NewUserService(userRepo, auditRepo, txManager, tokens, opts),
		departments: NewDepartmentService(deptRepo, requestRepo, itemRepo, movementRepo, auditRepo, txManager, tokens, published),
		inventory:   NewInventoryService(itemRepo, categoryRepo, movementRepo, auditRepo, txManager, published),
		categories:  NewCategoryService(categoryRepo, itemRepo, auditRepo, txManager),
		insights:    NewInsightsService(repository.NewInsightsRepository(db), requestRepo),
		audit:       NewAuditService(auditRepo),
		adminID:     uuid.New(),
	}
}

func (f *fixture) admin() Actor {
	return AdminActor(f.adminID)
}

func (f *fixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), f.admin(), CategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) item(t *testing.T, categoryID uuid.UUID, name string, quantity int, price string) *model.InventoryItem {
	t.Helper()
	item, merged, err := f.inventory.Create(context.Background(), f.admin(), ItemRequest{
		Name:         name,
		Category:     categoryID.String(),
		Quantity:     quantity,
		Price:        decimal.RequireFromString(price),
		PurchaseDate: "2024-03-01",
		Supplier:     "Acme",
		Description:  name + " for the office",
	})
	require.NoError(t, err)
	require.False(t, merged)
	return item
}

func (f *fixture) department(t *testing.T, name string) *model.Department {
	t.Helper()
	d, err := f.departments.Create(context.Background(), f.admin(), CreateDepartmentRequest{
		Name:     name,
		Email:    uuid.NewString()[:8] + "@dept.example.com",
		Password: "secret123",
		Phone:    "555-0100",
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) submit(t *testing.T, deptID uuid.UUID, item string, quantity int) *model.InventoryRequest {
	t.Helper()
	_, r, err := f.departments.RequestInventory(context.Background(), DepartmentActor(deptID), SubmitRequest{
		DepartmentID:  deptID.String(),
		InventoryItem: item,
		Quantity:      quantity,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) assign(deptID, requestID uuid.UUID, status string) (*AssignResult, error) {
	return f.departments.AssignInventory(context.Background(), f.adminID, AssignRequest{
		DepartmentID: deptID.String(),
		RequestID:    requestID.String(),
		Status:       status,
	})
}

func (f *fixture) quantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	item, err := f.inventory.Get(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

func (f *fixture) request(t *testing.T, deptID, requestID uuid.UUID) model.InventoryRequest {
	t.Helper()
	reqs, err := f.departments.ListRequests(context.Background(), deptID)
	require.NoError(t, err)
	for _, r := range reqs {
		if r.ID == requestID {
			return r
		}
	}
	t.Fatalf("request %s not found", requestID)
	return model.InventoryRequest{}
}
