package middleware

import (
	"net/http"
	"strings"

	"inventory-api/pkg/jwt"
	"inventory-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccessTokenCookie = "access_token"

	ctxSubjectID = "subjectID"
	ctxRole      = "role"
)

// Auth validates access tokens issued for admins and departments
type Auth struct {
	tokens  *jwt.Manager
	release bool
}

func NewAuth(tokens *jwt.Manager, release bool) *Auth {
	return &Auth{tokens: tokens, release: release}
}

// Tokens exposes the manager used to sign access tokens
func (a *Auth) Tokens() *jwt.Manager {
	return a.tokens
}

func (a *Auth) cookieMode() (http.SameSite, bool) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	if a.release {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// SetTokenCookie sets access_token as an HttpOnly cookie living as long as the token
func (a *Auth) SetTokenCookie(c *gin.Context, token string) {
	sameSite, secure := a.cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenCookie, token, int(a.tokens.TTL().Seconds()), "/", "", secure, true)
}

// ClearTokenCookie removes the access_token cookie
func (a *Auth) ClearTokenCookie(c *gin.Context) {
	sameSite, secure := a.cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
}

// RequireRole validates the token (cookie first, then Bearer header) and checks
// that its role is one of allowedRoles.
func (a *Auth) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, cookieErr := c.Cookie(AccessTokenCookie)
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		claims, err := a.tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		subjectID, err := claims.SubjectID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token subject"))
			return
		}

		roleAllowed := false
		for _, role := range allowedRoles {
			if claims.Role == role {
				roleAllowed = true
				break
			}
		}
		if !roleAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(ctxSubjectID, subjectID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireSelf lets admins through and restricts departments to the department
// named by the :param path segment. It must run after RequireRole.
func RequireSelf(param string, allowAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		if role == jwt.RoleAdmin && allowAdmin {
			c.Next()
			return
		}

		subjectID, _ := SubjectID(c)
		if role != jwt.RoleDepartment || c.Param(param) != subjectID.String() {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: not your department"))
			return
		}
		c.Next()
	}
}

// SubjectID returns the authenticated admin or department id
func SubjectID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxSubjectID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Role returns the authenticated role, or "" for anonymous requests
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}
