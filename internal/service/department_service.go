package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-api/internal/model"
	"inventory-api/internal/notify"
	"inventory-api/internal/repository"
	"inventory-api/pkg/jwt"
	"inventory-api/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultUnit = "pcs"

// --- DTOs ---

type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

type UpdateDepartmentRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Phone    string `json:"phone"`
}

type DepartmentProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type SubmitRequest struct {
	DepartmentID  string `json:"departmentId" validate:"required,uuid"`
	InventoryItem string `json:"inventoryItem" validate:"required"` // item id or exact item name
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
}

type AssignRequest struct {
	DepartmentID string `json:"departmentId" validate:"required,uuid"`
	RequestID    string `json:"requestId" validate:"required,uuid"`
	Status       string `json:"status" validate:"required,request_status"`
}

type DepartmentSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type DepartmentLoginResponse struct {
	Token      string            `json:"token"`
	Department DepartmentSummary `json:"department"`
}

// AssignResult is the department after the decision and, for approvals, the item it drew from
type AssignResult struct {
	Department *model.Department    `json:"department"`
	Inventory  *model.InventoryItem `json:"inventory,omitempty"`
}

// AssignedItem describes the current state of the item behind an approved request
type AssignedItem struct {
	ID          *uuid.UUID       `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Supplier    string           `json:"supplier,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        string           `json:"unit,omitempty"`
}

type DepartmentInventoryEntry struct {
	RequestID     uuid.UUID    `json:"id"`
	InventoryItem AssignedItem `json:"inventory_item"`
	Quantity      int          `json:"quantity"`
	Status        string       `json:"status"`
	RequestedAt   time.Time    `json:"requested_at"`
	ProcessedAt   *time.Time   `json:"processed_at"`
}

// --- Interface ---

type DepartmentService interface {
	Create(ctx context.Context, actor Actor, req CreateDepartmentRequest) (*model.Department, error)
	List(ctx context.Context, params pagination.Params) ([]model.Department, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateDepartmentRequest) (*model.Department, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	UpdateProfile(ctx context.Context, actor Actor, id uuid.UUID, req DepartmentProfileRequest) (*DepartmentSummary, error)
	Login(ctx context.Context, req LoginRequest) (*DepartmentLoginResponse, error)

	RequestInventory(ctx context.Context, actor Actor, req SubmitRequest) (*model.Department, *model.InventoryRequest, error)
	AssignInventory(ctx context.Context, adminID uuid.UUID, req AssignRequest) (*AssignResult, error)
	ListRequests(ctx context.Context, departmentID uuid.UUID) ([]model.InventoryRequest, error)
	ListAllRequests(ctx context.Context) ([]model.Department, error)
	DepartmentInventory(ctx context.Context, departmentID uuid.UUID) ([]DepartmentInventoryEntry, error)
}

type departmentService struct {
	depts     repository.DepartmentRepository
	requests  repository.RequestRepository
	items     repository.InventoryRepository
	movements repository.StockMovementRepository
	tx        repository.TransactionManager
	audit     auditor
	tokens    *jwt.Manager
	publisher notify.Publisher
}

func NewDepartmentService(
	depts repository.DepartmentRepository,
	requests repository.RequestRepository,
	items repository.InventoryRepository,
	movements repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	tx repository.TransactionManager,
	tokens *jwt.Manager,
	publisher notify.Publisher,
) DepartmentService {
	return &departmentService{
		depts:     depts,
		requests:  requests,
		items:     items,
		movements: movements,
		tx:        tx,
		audit:     auditor{repo: auditRepo},
		tokens:    tokens,
		publisher: publisher,
	}
}

// --- Department management ---

func (s *departmentService) Create(ctx context.Context, actor Actor, req CreateDepartmentRequest) (*model.Department, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	dept := &model.Department{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hashed,
		Phone:    req.Phone,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.depts.ExistsByNameOrEmail(txCtx, dept.Name, dept.Email, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("department name or email %w", ErrConflict)
		}
		if err := s.depts.Create(txCtx, dept); err != nil {
			return fmt.Errorf("failed to create department: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreateDepartment, dept.ID.String(), dept.Name,
			map[string]string{"email": dept.Email, "phone": dept.Phone})
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) List(ctx context.Context, params pagination.Params) ([]model.Department, int64, error) {
	return s.depts.List(ctx, params.Offset, params.Limit)
}

func (s *departmentService) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	dept, err := s.depts.FindByIDWithRequests(ctx, id)
	if err != nil {
		return nil, notFound(err, "department")
	}
	return dept, nil
}

func (s *departmentService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateDepartmentRequest) (*model.Department, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dept, err := s.depts.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "department")
		}
		if err := s.applyIdentity(txCtx, dept, req.Name, req.Email, req.Password); err != nil {
			return err
		}
		dept.Phone = req.Phone

		if err := s.depts.Update(txCtx, dept); err != nil {
			return fmt.Errorf("failed to update department: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdateDepartment, dept.ID.String(), dept.Name,
			map[string]interface{}{"email": dept.Email, "phone": dept.Phone, "password_changed": req.Password != ""})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// applyIdentity sets name, email and optionally a new password after checking uniqueness
func (s *departmentService) applyIdentity(ctx context.Context, dept *model.Department, name, email, password string) error {
	name = strings.TrimSpace(name)
	exists, err := s.depts.ExistsByNameOrEmail(ctx, name, email, dept.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("department name or email %w", ErrConflict)
	}

	dept.Name = name
	dept.Email = email
	if password != "" {
		hashed, err := hashPassword(password)
		if err != nil {
			return err
		}
		dept.Password = hashed
	}
	return nil
}

func (s *departmentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dept, err := s.depts.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "department")
		}
		if err := s.depts.Delete(txCtx, id); err != nil {
			return notFound(err, "department")
		}
		return s.audit.record(txCtx, actor, model.ActionDeleteDepartment, id.String(), dept.Name, nil)
	})
}

// UpdateProfile lets a department change its own name, email and password
func (s *departmentService) UpdateProfile(ctx context.Context, actor Actor, id uuid.UUID, req DepartmentProfileRequest) (*DepartmentSummary, error) {
	if actor.Type != model.ActorDepartment || actor.ID == nil || *actor.ID != id {
		return nil, fmt.Errorf("%w: departments may only update their own profile", ErrForbidden)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var summary DepartmentSummary
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dept, err := s.depts.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "department")
		}
		if err := s.applyIdentity(txCtx, dept, req.Name, req.Email, req.Password); err != nil {
			return err
		}
		if err := s.depts.Update(txCtx, dept); err != nil {
			return fmt.Errorf("failed to update department: %w", err)
		}
		summary = DepartmentSummary{ID: dept.ID, Name: dept.Name, Email: dept.Email}
		return s.audit.record(txCtx, actor, model.ActionUpdateProfile, dept.ID.String(), dept.Name,
			map[string]bool{"password_changed": req.Password != ""})
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *departmentService) Login(ctx context.Context, req LoginRequest) (*DepartmentLoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	dept, err := s.depts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(dept.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(dept.ID, jwt.RoleDepartment)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &DepartmentLoginResponse{
		Token:      token,
		Department: DepartmentSummary{ID: dept.ID, Name: dept.Name, Email: dept.Email},
	}, nil
}

// --- Request workflow ---

// RequestInventory records a Pending request and returns the department with
// its requests. The item text is kept as submitted; it is linked to a stocked
// item now when it names one, otherwise the link is made on approval.
func (s *departmentService) RequestInventory(ctx context.Context, actor Actor, req SubmitRequest) (*model.Department, *model.InventoryRequest, error) {
	if err := validate(req); err != nil {
		return nil, nil, err
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, nil, invalid("departmentId must be a uuid")
	}
	if actor.Type == model.ActorDepartment && (actor.ID == nil || *actor.ID != deptID) {
		return nil, nil, fmt.Errorf("%w: departments may only request inventory for themselves", ErrForbidden)
	}
	ref := strings.TrimSpace(req.InventoryItem)
	if ref == "" {
		return nil, nil, invalid("inventoryItem is required")
	}

	var request *model.InventoryRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dept, err := s.depts.FindByID(txCtx, deptID)
		if err != nil {
			return notFound(err, "department")
		}

		request = &model.InventoryRequest{
			DepartmentID: dept.ID,
			ItemName:     ref,
			Quantity:     req.Quantity,
			Status:       model.RequestPending,
			RequestedAt:  time.Now().UTC(),
		}
		item, err := s.resolveItem(txCtx, ref)
		switch {
		case err == nil:
			request.InventoryItemID = &item.ID
			request.ItemName = item.Name
		case !errors.Is(err, ErrNotFound):
			return err
		}

		if err := s.requests.Create(txCtx, request); err != nil {
			return fmt.Errorf("failed to create inventory request: %w", err)
		}

		return s.audit.record(txCtx, actor, model.ActionSubmitRequest, request.ID.String(), request.ItemName,
			map[string]interface{}{"department_id": dept.ID, "quantity": req.Quantity})
	})
	if err != nil {
		return nil, nil, err
	}

	s.publisher.Publish(ctx, notify.NewEvent(notify.EventRequestSubmitted, request.ID.String(), request))

	dept, err := s.depts.FindByIDWithRequests(ctx, deptID)
	if err != nil {
		return nil, nil, notFound(err, "department")
	}
	return dept, request, nil
}

// resolveItem finds an item by id or exact name
func (s *departmentService) resolveItem(ctx context.Context, ref string) (*model.InventoryItem, error) {
	ref = strings.TrimSpace(ref)

	var item *model.InventoryItem
	var err error
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		item, err = s.items.FindByID(ctx, id)
	} else {
		item, err = s.items.FindByName(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory item %q %w", ref, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

// AssignInventory approves or rejects a Pending request in a single transaction.
// The request row is locked and its status flipped with a compare-and-swap, so
// concurrent decisions on one request leave exactly one winner and stock is
// decremented at most once.
func (s *departmentService) AssignInventory(ctx context.Context, adminID uuid.UUID, req AssignRequest) (*AssignResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, invalid("departmentId must be a uuid")
	}
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return nil, invalid("requestId must be a uuid")
	}

	var (
		request *model.InventoryRequest
		item    *model.InventoryItem
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.depts.FindByID(txCtx, deptID); err != nil {
			return notFound(err, "department")
		}

		var err error
		request, err = s.requests.FindForUpdate(txCtx, deptID, requestID)
		if err != nil {
			return notFound(err, "inventory request")
		}
		if request.Status != model.RequestPending {
			return fmt.Errorf("request is already %s: %w", request.Status, ErrAlreadyProcessed)
		}

		if req.Status == model.RequestApproved {
			if item, err = s.withdraw(txCtx, request); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		if err := s.requests.Transition(txCtx, request.ID, req.Status, now, &adminID); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return fmt.Errorf("request %w", ErrAlreadyProcessed)
			}
			return fmt.Errorf("failed to update request: %w", err)
		}
		request.Status = req.Status
		request.ProcessedAt = &now
		request.ProcessedBy = &adminID

		action := model.ActionRejectRequest
		if req.Status == model.RequestApproved {
			action = model.ActionApproveRequest
		}
		return s.audit.record(txCtx, AdminActor(adminID), action, request.ID.String(), request.ItemName,
			map[string]interface{}{"department_id": deptID, "quantity": request.Quantity, "status": req.Status})
	})
	if err != nil {
		return nil, err
	}

	eventType := notify.EventRequestRejected
	if req.Status == model.RequestApproved {
		eventType = notify.EventRequestApproved
	}
	s.publisher.Publish(ctx, notify.NewEvent(eventType, request.ID.String(), request))
	if item != nil {
		s.publisher.Publish(ctx, notify.NewEvent(notify.EventItemUpdated, item.ID.String(), item))
	}

	dept, err := s.depts.FindByIDWithRequests(ctx, deptID)
	if err != nil {
		return nil, notFound(err, "department")
	}
	return &AssignResult{Department: dept, Inventory: item}, nil
}

// withdraw takes the requested quantity out of the requested item and records
// an OUT movement. A request without a linked item is resolved by its item
// text here and linked on success.
func (s *departmentService) withdraw(ctx context.Context, request *model.InventoryRequest) (*model.InventoryItem, error) {
	if request.InventoryItemID == nil {
		found, err := s.resolveItem(ctx, request.ItemName)
		if err != nil {
			return nil, err
		}
		if err := s.requests.AttachItem(ctx, request.ID, found.ID); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return nil, fmt.Errorf("request %w", ErrAlreadyProcessed)
			}
			return nil, fmt.Errorf("failed to link inventory item: %w", err)
		}
		request.InventoryItemID = &found.ID
	}

	item, err := s.items.FindByIDForUpdate(ctx, *request.InventoryItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory item %q %w", request.ItemName, ErrNotFound)
		}
		return nil, err
	}
	if item.Quantity < request.Quantity {
		return nil, fmt.Errorf("%w: %d of %s available, %d requested", ErrInsufficientStock, item.Quantity, item.Name, request.Quantity)
	}

	after, err := s.items.Withdraw(ctx, item.ID, request.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return nil, fmt.Errorf("%w: %s changed concurrently", ErrInsufficientStock, item.Name)
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	item.Quantity = after
	item.Status = model.StockStatus(after)

	movement := &model.StockMovement{
		ItemID:          item.ID,
		RequestID:       &request.ID,
		Type:            model.MovementOut,
		QuantityChanged: -request.Quantity,
		StockAfter:      after,
	}
	if err := s.movements.Create(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}
	return item, nil
}

// ListRequests returns every request of the department, newest first
func (s *departmentService) ListRequests(ctx context.Context, departmentID uuid.UUID) ([]model.InventoryRequest, error) {
	if _, err := s.depts.FindByID(ctx, departmentID); err != nil {
		return nil, notFound(err, "department")
	}
	return s.requests.ListByDepartment(ctx, departmentID, "")
}

func (s *departmentService) ListAllRequests(ctx context.Context) ([]model.Department, error) {
	return s.depts.ListWithRequests(ctx)
}

// DepartmentInventory lists approved requests with the current details of their
// items. Requests whose item is gone keep the name captured at submission.
func (s *departmentService) DepartmentInventory(ctx context.Context, departmentID uuid.UUID) ([]DepartmentInventoryEntry, error) {
	if _, err := s.depts.FindByID(ctx, departmentID); err != nil {
		return nil, notFound(err, "department")
	}

	approved, err := s.requests.ListByDepartment(ctx, departmentID, model.RequestApproved)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(approved))
	for _, r := range approved {
		if r.InventoryItemID != nil {
			ids = append(ids, *r.InventoryItemID)
		}
	}
	items, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	entries := make([]DepartmentInventoryEntry, 0, len(approved))
	for _, r := range approved {
		assigned := AssignedItem{Name: r.ItemName}
		if r.InventoryItemID != nil {
			if it, ok := byID[*r.InventoryItemID]; ok {
				price := it.Price
				assigned = AssignedItem{
					ID:          &it.ID,
					Name:        it.Name,
					Description: it.Description,
					Supplier:    it.Supplier,
					Price:       &price,
					Unit:        defaultUnit,
				}
			}
		}
		entries = append(entries, DepartmentInventoryEntry{
			RequestID:     r.ID,
			InventoryItem: assigned,
			Quantity:      r.Quantity,
			Status:        r.Status,
			RequestedAt:   r.RequestedAt,
			ProcessedAt:   r.ProcessedAt,
		})
	}
	return entries, nil
}
