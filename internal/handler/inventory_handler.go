package handler

import (
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"
	"inventory-api/pkg/jwt"
	"inventory-api/pkg/pagination"
	"inventory-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	auth             *middleware.Auth
}

func NewInventoryHandler(inventoryService service.InventoryService, auth *middleware.Auth) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, auth: auth}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := h.auth.RequireRole(jwt.RoleAdmin)
	reader := h.auth.RequireRole(jwt.RoleAdmin, jwt.RoleDepartment)

	inventory := router.Group("/inventory")
	{
		inventory.GET("", reader, h.List)
		inventory.GET("/category/:categoryId", reader, h.ListByCategory)
		inventory.GET("/:id", reader, h.Get)
		inventory.GET("/:id/stock", reader, h.CheckStock)
		inventory.GET("/:id/movements", admin, h.Movements)
		inventory.POST("", admin, h.Create)
		inventory.PATCH("/:id", admin, h.Update)
		inventory.DELETE("/:id", admin, h.Delete)
	}
}

// List returns inventory items page by page
// @Summary      List inventory
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Case-insensitive name filter"
// @Success      200     {object}  response.Response{data=pagination.Page}
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.inventoryService.List(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Page{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// Get returns one item
// @Summary      Get inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.InventoryItem}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// ListByCategory returns the items of a category
// @Summary      Inventory by category
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        categoryId  path      string  true  "Category ID"
// @Success      200         {object}  response.Response{data=[]model.InventoryItem}
// @Router       /api/inventory/category/{categoryId} [get]
func (h *InventoryHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	items, err := h.inventoryService.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CheckStock reports an item's stock status and quantity
// @Summary      Check stock
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.StockResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id}/stock [get]
func (h *InventoryHandler) CheckStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stock, err := h.inventoryService.CheckStock(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stock))
}

// Movements returns the stock history of an item
// @Summary      Stock movements
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=[]model.StockMovement}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	movements, err := h.inventoryService.Movements(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}

// Create adds an item, or restocks the matching one
// @Summary      Add inventory
// @Description  An item with the same name (case-insensitive), category and price is restocked and 200 returned.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ItemRequest  true  "Item"
// @Success      200      {object}  response.Response{data=model.InventoryItem}
// @Success      201      {object}  response.Response{data=model.InventoryItem}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, merged, err := h.inventoryService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	if merged {
		c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Inventory quantity updated successfully", item))
		return
	}
	c.JSON(http.StatusCreated, response.SuccessMessage(http.StatusCreated, "Inventory added successfully", item))
}

// Update replaces an item's fields
// @Summary      Update inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Item ID"
// @Param        payload  body      service.ItemRequest  true  "Item"
// @Success      200      {object}  response.Response{data=model.InventoryItem}
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/{id} [patch]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Inventory updated successfully", item))
}

// Delete removes an item
// @Summary      Delete inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.InventoryItem}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.Delete(c.Request.Context(), actor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Inventory deleted successfully", item))
}
