package service

import (
	"context"
	"fmt"
	"strings"

	"inventory-api/internal/model"
	"inventory-api/internal/repository"

	"github.com/google/uuid"
)

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CategoryService interface {
	Create(ctx context.Context, actor Actor, req CategoryRequest) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	Items(ctx context.Context, id uuid.UUID) ([]model.InventoryItem, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	items      repository.InventoryRepository
	tx         repository.TransactionManager
	audit      auditor
}

func NewCategoryService(categories repository.CategoryRepository, items repository.InventoryRepository, auditRepo repository.AuditRepository, tx repository.TransactionManager) CategoryService {
	return &categoryService{
		categories: categories,
		items:      items,
		tx:         tx,
		audit:      auditor{repo: auditRepo},
	}
}

func (s *categoryService) Create(ctx context.Context, actor Actor, req CategoryRequest) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		taken, err := s.categories.ExistsByName(txCtx, category.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category %q %w", category.Name, ErrConflict)
		}
		if err := s.categories.Create(txCtx, category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req CategoryRequest) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var category *model.Category
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		category, err = s.categories.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "category")
		}

		name := strings.TrimSpace(req.Name)
		taken, err := s.categories.ExistsByName(txCtx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category %q %w", name, ErrConflict)
		}

		category.Name = name
		category.Description = req.Description
		if err := s.categories.Update(txCtx, category); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses while any item still belongs to the category
func (s *categoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.categories.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "category")
		}

		count, err := s.items.CountByCategory(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: category %q still has %d items", ErrConflict, category.Name, count)
		}

		if err := s.categories.Delete(txCtx, id); err != nil {
			return notFound(err, "category")
		}
		return s.audit.record(txCtx, actor, model.ActionDeleteCategory, id.String(), category.Name, nil)
	})
}

func (s *categoryService) Items(ctx context.Context, id uuid.UUID) ([]model.InventoryItem, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.items.ListByCategory(ctx, id)
}
