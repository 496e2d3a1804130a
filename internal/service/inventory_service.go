package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-api/internal/model"
	"inventory-api/internal/notify"
	"inventory-api/internal/repository"
	"inventory-api/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ItemRequest struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required,uuid"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	Price        decimal.Decimal `json:"price"`
	PurchaseDate string          `json:"purchaseDate" validate:"required"`
	Supplier     string          `json:"supplier"`
}

type StockResponse struct {
	StockStatus string `json:"stock_status"`
	Quantity    int    `json:"quantity"`
}

// --- Interface ---

type InventoryService interface {
	List(ctx context.Context, params pagination.Params, search string) ([]model.InventoryItem, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.InventoryItem, error)
	CheckStock(ctx context.Context, id uuid.UUID) (*StockResponse, error)
	Movements(ctx context.Context, id uuid.UUID) ([]model.StockMovement, error)
	// Create returns the stored item and whether an existing item was merged into
	Create(ctx context.Context, actor Actor, req ItemRequest) (*model.InventoryItem, bool, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req ItemRequest) (*model.InventoryItem, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.InventoryItem, error)
}

type inventoryService struct {
	items      repository.InventoryRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	tx         repository.TransactionManager
	audit      auditor
	publisher  notify.Publisher
}

func NewInventoryService(
	items repository.InventoryRepository,
	categories repository.CategoryRepository,
	movements repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	tx repository.TransactionManager,
	publisher notify.Publisher,
) InventoryService {
	return &inventoryService{
		items:      items,
		categories: categories,
		movements:  movements,
		tx:         tx,
		audit:      auditor{repo: auditRepo},
		publisher:  publisher,
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and plain dates
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("unrecognised date %q, expected YYYY-MM-DD or RFC 3339", value)
}

type parsedItem struct {
	categoryID   uuid.UUID
	purchaseDate time.Time
}

func (s *inventoryService) parseItem(req ItemRequest) (parsedItem, error) {
	if err := validate(req); err != nil {
		return parsedItem{}, err
	}
	if !req.Price.IsPositive() {
		return parsedItem{}, invalid("price must be greater than 0")
	}
	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		return parsedItem{}, invalid("category must be a uuid")
	}
	purchaseDate, err := ParseDate(req.PurchaseDate)
	if err != nil {
		return parsedItem{}, err
	}
	return parsedItem{categoryID: categoryID, purchaseDate: purchaseDate}, nil
}

func (s *inventoryService) List(ctx context.Context, params pagination.Params, search string) ([]model.InventoryItem, int64, error) {
	return s.items.List(ctx, params.Offset, params.Limit, strings.TrimSpace(search))
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "inventory item")
	}
	return item, nil
}

func (s *inventoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.InventoryItem, error) {
	return s.items.ListByCategory(ctx, categoryID)
}

func (s *inventoryService) CheckStock(ctx context.Context, id uuid.UUID) (*StockResponse, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StockResponse{StockStatus: item.Status, Quantity: item.Quantity}, nil
}

func (s *inventoryService) Movements(ctx context.Context, id uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.movements.ListByItem(ctx, id)
}

// Create adds stock. An item matching name (case-insensitive), category and
// price absorbs the quantity instead of a new item being created.
func (s *inventoryService) Create(ctx context.Context, actor Actor, req ItemRequest) (*model.InventoryItem, bool, error) {
	if req.Quantity <= 0 {
		return nil, false, invalid("quantity must be greater than 0")
	}
	parsed, err := s.parseItem(req)
	if err != nil {
		return nil, false, err
	}
	name := strings.TrimSpace(req.Name)

	var (
		item   *model.InventoryItem
		merged bool
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.categories.FindByID(txCtx, parsed.categoryID); err != nil {
			return notFound(err, "category")
		}

		candidates, err := s.items.FindByNameFold(txCtx, name, parsed.categoryID)
		if err != nil {
			return err
		}
		for i := range candidates {
			if candidates[i].Price.Equal(req.Price) {
				item = &candidates[i]
				break
			}
		}

		action := model.ActionCreateItem
		if item != nil {
			merged = true
			action = model.ActionRestockItem
			item.Quantity += req.Quantity
			item.PurchaseDate = parsed.purchaseDate
			if err := s.items.Update(txCtx, item); err != nil {
				return fmt.Errorf("failed to restock item: %w", err)
			}
		} else {
			taken, err := s.items.ExistsByName(txCtx, name, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("inventory item %q %w with a different category or price", name, ErrConflict)
			}
			item = &model.InventoryItem{
				Name:         name,
				CategoryID:   parsed.categoryID,
				Description:  req.Description,
				Quantity:     req.Quantity,
				Price:        req.Price,
				PurchaseDate: parsed.purchaseDate,
				Supplier:     req.Supplier,
			}
			if err := s.items.Create(txCtx, item); err != nil {
				return fmt.Errorf("failed to create item: %w", err)
			}
		}

		movement := &model.StockMovement{
			ItemID:          item.ID,
			Type:            model.MovementIn,
			QuantityChanged: req.Quantity,
			StockAfter:      item.Quantity,
		}
		if err := s.movements.Create(txCtx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		return s.audit.record(txCtx, actor, action, item.ID.String(), item.Name,
			map[string]interface{}{"quantity": req.Quantity, "price": req.Price, "stock_after": item.Quantity})
	})
	if err != nil {
		return nil, false, err
	}

	stored, err := s.Get(ctx, item.ID)
	if err != nil {
		return nil, false, err
	}

	eventType := notify.EventItemCreated
	if merged {
		eventType = notify.EventItemUpdated
	}
	s.publisher.Publish(ctx, notify.NewEvent(eventType, stored.ID.String(), stored))
	return stored, merged, nil
}

// Update replaces the editable fields of an item. A quantity change is recorded as an ADJUST movement.
func (s *inventoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req ItemRequest) (*model.InventoryItem, error) {
	parsed, err := s.parseItem(req)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.items.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFound(err, "inventory item")
		}
		if _, err := s.categories.FindByID(txCtx, parsed.categoryID); err != nil {
			return notFound(err, "category")
		}
		taken, err := s.items.ExistsByName(txCtx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("inventory item %q %w", name, ErrConflict)
		}

		delta := req.Quantity - item.Quantity
		item.Name = name
		item.CategoryID = parsed.categoryID
		item.Description = req.Description
		item.Quantity = req.Quantity
		item.Price = req.Price
		item.PurchaseDate = parsed.purchaseDate
		item.Supplier = req.Supplier
		if err := s.items.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if delta != 0 {
			movement := &model.StockMovement{
				ItemID:          item.ID,
				Type:            model.MovementAdjust,
				QuantityChanged: delta,
				StockAfter:      item.Quantity,
			}
			if err := s.movements.Create(txCtx, movement); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		return s.audit.record(txCtx, actor, model.ActionUpdateItem, item.ID.String(), item.Name, req)
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, notify.NewEvent(notify.EventItemUpdated, stored.ID.String(), stored))
	return stored, nil
}

// Delete removes an item. Requests that referenced it keep their snapshot name.
func (s *inventoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.InventoryItem, error) {
	var item *model.InventoryItem
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		item, err = s.items.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "inventory item")
		}
		if err := s.items.Delete(txCtx, id); err != nil {
			return notFound(err, "inventory item")
		}
		return s.audit.record(txCtx, actor, model.ActionDeleteItem, id.String(), item.Name,
			map[string]int{"quantity": item.Quantity})
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, notify.NewEvent(notify.EventItemDeleted, id.String(), item))
	return item, nil
}
