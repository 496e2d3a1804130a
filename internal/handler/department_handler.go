package handler

import (
	"net/http"
	"strings"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"
	"inventory-api/pkg/jwt"
	"inventory-api/pkg/pagination"
	"inventory-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	departmentService service.DepartmentService
	auth              *middleware.Auth
}

func NewDepartmentHandler(departmentService service.DepartmentService, auth *middleware.Auth) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService, auth: auth}
}

func (h *DepartmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/department/login", h.Login)
	router.GET("/auth/department/logout", h.Logout)

	admin := h.auth.RequireRole(jwt.RoleAdmin)
	adminOrDept := h.auth.RequireRole(jwt.RoleAdmin, jwt.RoleDepartment)
	self := middleware.RequireSelf("id", true)

	departments := router.Group("/department")
	{
		departments.GET("", admin, h.List)
		departments.POST("", admin, h.Create)
		departments.GET("/requests/all", admin, h.ListAllRequests)
		departments.POST("/request", adminOrDept, h.RequestInventory)
		departments.POST("/assign", admin, h.AssignInventory)
		departments.PATCH("/profile/:id", h.auth.RequireRole(jwt.RoleDepartment), middleware.RequireSelf("id", false), h.UpdateProfile)

		departments.GET("/:id", adminOrDept, self, h.Get)
		departments.PATCH("/:id", admin, h.Update)
		departments.DELETE("/:id", admin, h.Delete)
		departments.GET("/:id/requests", adminOrDept, self, h.ListRequests)
		departments.GET("/:id/inventory", adminOrDept, self, h.DepartmentInventory)
	}
}

// Login authenticates a department
// @Summary      Department login
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.DepartmentLoginResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/department/login [post]
func (h *DepartmentHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.departmentService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.auth.SetTokenCookie(c, res.Token)
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Login successful", res))
}

// Logout clears the department's cookie
// @Summary      Department logout
// @Tags         departments
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/department/logout [get]
func (h *DepartmentHandler) Logout(c *gin.Context) {
	h.auth.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Logout successful", nil))
}

// List returns departments page by page
// @Summary      List departments
// @Tags         departments
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=pagination.Page}
// @Router       /api/department [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	depts, total, err := h.departmentService.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Page{
		Items: depts,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// Get returns one department with its requests
// @Summary      Get department
// @Tags         departments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=model.Department}
// @Failure      404  {object}  response.Response
// @Router       /api/department/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	dept, err := h.departmentService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dept))
}

// Create registers a department
// @Summary      Create department
// @Tags         departments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDepartmentRequest  true  "Department"
// @Success      201      {object}  response.Response{data=model.Department}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/department [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.departmentService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.SuccessMessage(http.StatusCreated, "Department created successfully", dept))
}

// Update replaces a department's details
// @Summary      Update department
// @Tags         departments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Department ID"
// @Param        payload  body      service.UpdateDepartmentRequest  true  "Department"
// @Success      200      {object}  response.Response{data=model.Department}
// @Failure      404      {object}  response.Response
// @Router       /api/department/{id} [patch]
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.departmentService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Department updated successfully", dept))
}

// Delete removes a department and its requests
// @Summary      Delete department
// @Tags         departments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/department/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.departmentService.Delete(c.Request.Context(), actor(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Department deleted successfully", nil))
}

// UpdateProfile lets a department edit itself
// @Summary      Update department profile
// @Tags         departments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Department ID"
// @Param        payload  body      service.DepartmentProfileRequest  true  "Profile"
// @Success      200      {object}  response.Response{data=service.DepartmentSummary}
// @Failure      403      {object}  response.Response
// @Router       /api/department/profile/{id} [patch]
func (h *DepartmentHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.DepartmentProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := h.departmentService.UpdateProfile(c.Request.Context(), actor(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Department updated successfully", summary))
}

// RequestInventory submits a Pending inventory request and returns the department with its requests
// @Summary      Submit inventory request
// @Description  inventoryItem is an item id or its exact name; it must name a stocked item by the time the request is approved. Departments may only submit for themselves.
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitRequest  true  "Request"
// @Success      200      {object}  response.Response{data=model.Department}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/department/request [post]
func (h *DepartmentHandler) RequestInventory(c *gin.Context) {
	var req service.SubmitRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, _, err := h.departmentService.RequestInventory(c.Request.Context(), actor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Inventory request submitted successfully", dept))
}

// AssignInventory approves or rejects a Pending request
// @Summary      Decide inventory request
// @Description  Approving withdraws the requested quantity from stock; rejecting has no stock effect.
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AssignRequest  true  "Decision"
// @Success      200      {object}  response.Response{data=service.AssignResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/department/assign [post]
func (h *DepartmentHandler) AssignInventory(c *gin.Context) {
	var req service.AssignRequest
	if !bindJSON(c, &req) {
		return
	}

	adminID, ok := middleware.SubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	result, err := h.departmentService.AssignInventory(c.Request.Context(), adminID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	message := "Inventory request " + strings.ToLower(req.Status) + " successfully"
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, message, result))
}

// ListRequests returns a department's requests newest first
// @Summary      Department requests
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=[]model.InventoryRequest}
// @Failure      404  {object}  response.Response
// @Router       /api/department/{id}/requests [get]
func (h *DepartmentHandler) ListRequests(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	requests, err := h.departmentService.ListRequests(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListAllRequests returns every department with its requests
// @Summary      All requests
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Department}
// @Router       /api/department/requests/all [get]
func (h *DepartmentHandler) ListAllRequests(c *gin.Context) {
	depts, err := h.departmentService.ListAllRequests(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, depts))
}

// DepartmentInventory returns the items assigned to a department
// @Summary      Department inventory
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=[]service.DepartmentInventoryEntry}
// @Failure      404  {object}  response.Response
// @Router       /api/department/{id}/inventory [get]
func (h *DepartmentHandler) DepartmentInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.departmentService.DepartmentInventory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}
