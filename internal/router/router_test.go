package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-api/internal/config"
	"inventory-api/internal/database"
	"inventory-api/internal/notify"
	"inventory-api/internal/service"
	"inventory-api/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) (*testServer, Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	tokens := jwt.NewManager("test-secret", time.Hour)
	services := NewServices(cfg, db, tokens, notify.Nop{})
	return &testServer{t: t, engine: New(cfg, services, tokens, nil)}, services
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
}

func TestInventoryRequestFlow(t *testing.T) {
	srv, services := newTestServer(t)
	_, _, err := services.Users.SeedAdmin(context.Background(), service.RegisterRequest{
		Name: "Administrator", Email: "admin@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	code, env := srv.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var adminLogin struct {
		Token string `json:"token"`
	}
	decode(t, env, &adminLogin)
	admin := adminLogin.Token
	require.NotEmpty(t, admin)

	code, env = srv.do(http.MethodGet, "/api/category", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotEmpty(t, env.Message)

	code, env = srv.do(http.MethodPost, "/api/category", admin, map[string]string{"name": "Office"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var category struct {
		ID string `json:"id"`
	}
	decode(t, env, &category)

	item := map[string]interface{}{
		"name":         "Paper",
		"category":     category.ID,
		"quantity":     10,
		"price":        "2.50",
		"purchaseDate": "2024-03-01",
		"supplier":     "Acme",
	}
	code, env = srv.do(http.MethodPost, "/api/inventory", admin, item)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "Inventory added successfully", env.Message)
	var paper struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
		Status   string `json:"status"`
	}
	decode(t, env, &paper)
	assert.Equal(t, "In Stock", paper.Status)

	code, env = srv.do(http.MethodPost, "/api/department", admin, map[string]string{
		"name": "HR", "email": "hr@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var hr struct {
		ID string `json:"id"`
	}
	decode(t, env, &hr)

	code, env = srv.do(http.MethodPost, "/api/department", admin, map[string]string{
		"name": "Finance", "email": "finance@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var finance struct {
		ID string `json:"id"`
	}
	decode(t, env, &finance)

	code, env = srv.do(http.MethodPost, "/api/auth/department/login", "", map[string]string{
		"email": "hr@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var deptLogin struct {
		Token      string `json:"token"`
		Department struct {
			ID string `json:"id"`
		} `json:"department"`
	}
	decode(t, env, &deptLogin)
	assert.Equal(t, hr.ID, deptLogin.Department.ID)
	dept := deptLogin.Token

	// Departments cannot reach admin routes
	code, _ = srv.do(http.MethodPost, "/api/inventory", dept, item)
	assert.Equal(t, http.StatusForbidden, code)

	type departmentRequests struct {
		ID       string `json:"id"`
		Requests []struct {
			ID            string `json:"id"`
			InventoryItem string `json:"inventory_item"`
			Quantity      int    `json:"quantity"`
			Status        string `json:"status"`
		} `json:"inventory_requests"`
	}

	// An item that is not stocked is accepted and only fails on approval
	code, env = srv.do(http.MethodPost, "/api/department/request", dept, map[string]interface{}{
		"departmentId": hr.ID, "inventoryItem": "Stapler", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var stapler departmentRequests
	decode(t, env, &stapler)
	assert.Equal(t, hr.ID, stapler.ID)
	require.Len(t, stapler.Requests, 1)
	assert.Equal(t, "Stapler", stapler.Requests[0].InventoryItem)
	assert.Equal(t, "Pending", stapler.Requests[0].Status)

	code, env = srv.do(http.MethodPost, "/api/department/assign", admin, map[string]string{
		"departmentId": hr.ID, "requestId": stapler.Requests[0].ID, "status": "Approved",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, env.Message, "Stapler")

	code, _ = srv.do(http.MethodPost, "/api/department/request", dept, map[string]interface{}{
		"departmentId": finance.ID, "inventoryItem": "Paper", "quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, code)

	time.Sleep(2 * time.Millisecond)
	code, env = srv.do(http.MethodPost, "/api/department/request", dept, map[string]interface{}{
		"departmentId": hr.ID, "inventoryItem": "Paper", "quantity": 4,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Inventory request submitted successfully", env.Message)
	var afterFirst departmentRequests
	decode(t, env, &afterFirst)
	require.Len(t, afterFirst.Requests, 2)
	first := afterFirst.Requests[0]
	assert.Equal(t, "Paper", first.InventoryItem)
	assert.Equal(t, 4, first.Quantity)
	assert.Equal(t, "Pending", first.Status)

	time.Sleep(2 * time.Millisecond)
	code, env = srv.do(http.MethodPost, "/api/department/request", dept, map[string]interface{}{
		"departmentId": hr.ID, "inventoryItem": paper.ID, "quantity": 20,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var afterSecond departmentRequests
	decode(t, env, &afterSecond)
	require.Len(t, afterSecond.Requests, 3)
	second := afterSecond.Requests[0]
	assert.Equal(t, 20, second.Quantity)

	// Only admins decide
	code, _ = srv.do(http.MethodPost, "/api/department/assign", dept, map[string]string{
		"departmentId": hr.ID, "requestId": first.ID, "status": "Approved",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = srv.do(http.MethodPost, "/api/department/assign", admin, map[string]string{
		"departmentId": hr.ID, "requestId": first.ID, "status": "Approved",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Inventory request approved successfully", env.Message)
	var assigned struct {
		Inventory struct {
			Quantity int `json:"quantity"`
		} `json:"inventory"`
	}
	decode(t, env, &assigned)
	assert.Equal(t, 6, assigned.Inventory.Quantity)

	code, env = srv.do(http.MethodPost, "/api/department/assign", admin, map[string]string{
		"departmentId": hr.ID, "requestId": first.ID, "status": "Rejected",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, env.Message)

	code, env = srv.do(http.MethodPost, "/api/department/assign", admin, map[string]string{
		"departmentId": hr.ID, "requestId": second.ID, "status": "Approved",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "insufficient stock")

	code, env = srv.do(http.MethodPost, "/api/department/assign", admin, map[string]string{
		"departmentId": hr.ID, "requestId": second.ID, "status": "Done",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Message)

	code, env = srv.do(http.MethodGet, "/api/department/"+hr.ID+"/requests", dept, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var requests []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env, &requests)
	require.Len(t, requests, 3)
	assert.Equal(t, second.ID, requests[0].ID)
	assert.Equal(t, "Pending", requests[0].Status)
	assert.Equal(t, first.ID, requests[1].ID)
	assert.Equal(t, "Approved", requests[1].Status)
	assert.Equal(t, stapler.Requests[0].ID, requests[2].ID)
	assert.Equal(t, "Pending", requests[2].Status)

	code, _ = srv.do(http.MethodGet, "/api/department/"+finance.ID+"/requests", dept, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = srv.do(http.MethodGet, "/api/department/"+hr.ID+"/inventory", dept, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var assignedItems []struct {
		Quantity      int `json:"quantity"`
		InventoryItem struct {
			Name string `json:"name"`
			Unit string `json:"unit"`
		} `json:"inventory_item"`
	}
	decode(t, env, &assignedItems)
	require.Len(t, assignedItems, 1)
	assert.Equal(t, "Paper", assignedItems[0].InventoryItem.Name)
	assert.Equal(t, 4, assignedItems[0].Quantity)

	code, env = srv.do(http.MethodGet, "/api/inventory/"+paper.ID+"/stock", dept, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var stock struct {
		StockStatus string `json:"stock_status"`
		Quantity    int    `json:"quantity"`
	}
	decode(t, env, &stock)
	assert.Equal(t, 6, stock.Quantity)
	assert.Equal(t, "In Stock", stock.StockStatus)

	code, env = srv.do(http.MethodGet, "/api/insight", admin, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var insights struct {
		TotalInventories int64            `json:"total_inventories"`
		RequestsByStatus map[string]int64 `json:"requests_by_status"`
	}
	decode(t, env, &insights)
	assert.Equal(t, int64(1), insights.TotalInventories)
	assert.Equal(t, int64(1), insights.RequestsByStatus["Approved"])

	code, env = srv.do(http.MethodGet, "/api/audit-logs?action=APPROVE_REQUEST", admin, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var logs struct {
		Total int64 `json:"total"`
	}
	decode(t, env, &logs)
	assert.Equal(t, int64(1), logs.Total)
}

func TestInvalidPayloadsAndIDs(t *testing.T) {
	srv, services := newTestServer(t)
	_, _, err := services.Users.SeedAdmin(context.Background(), service.RegisterRequest{
		Name: "Administrator", Email: "admin@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	code, env := srv.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, env, &login)

	code, env = srv.do(http.MethodGet, "/api/inventory/not-a-uuid", login.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)

	code, env = srv.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotEmpty(t, env.Message)

	code, env = srv.do(http.MethodGet, "/api/insight?startDate=2024-05-01&endDate=2024-04-01", login.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Message)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}
