package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-api/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(auth *Auth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", auth.RequireRole(jwt.RoleAdmin), func(c *gin.Context) {
		id, _ := SubjectID(c)
		c.String(http.StatusOK, id.String())
	})
	r.GET("/department/:id", auth.RequireRole(jwt.RoleAdmin, jwt.RoleDepartment), RequireSelf("id", true), func(c *gin.Context) {
		c.String(http.StatusOK, Role(c))
	})
	r.PATCH("/profile/:id", auth.RequireRole(jwt.RoleDepartment), RequireSelf("id", false), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	r := setupRouter(NewAuth(tokens, false))

	adminID := uuid.New()
	adminToken, err := tokens.Generate(adminID, jwt.RoleAdmin)
	require.NoError(t, err)
	deptToken, err := tokens.Generate(uuid.New(), jwt.RoleDepartment)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)

	w = do(r, http.MethodGet, "/admin", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/admin", deptToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminID.String(), w.Body.String())
}

func TestRequireRoleReadsCookie(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	r := setupRouter(NewAuth(tokens, false))

	token, err := tokens.Generate(uuid.New(), jwt.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSelf(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	r := setupRouter(NewAuth(tokens, false))

	deptID := uuid.New()
	own, err := tokens.Generate(deptID, jwt.RoleDepartment)
	require.NoError(t, err)
	admin, err := tokens.Generate(uuid.New(), jwt.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/department/"+deptID.String(), own).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/department/"+uuid.NewString(), own).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/department/"+uuid.NewString(), admin).Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPatch, "/profile/"+deptID.String(), own).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPatch, "/profile/"+deptID.String(), admin).Code)
}

func TestTokenCookieLifecycle(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	auth := NewAuth(tokens, true)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	auth.SetTokenCookie(c, "abc")
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=abc")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "Max-Age=3600")
}
