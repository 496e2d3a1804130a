package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"
	"inventory-api/pkg/jwt"
	"inventory-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the matching status. Internal errors are logged, not echoed.
func writeError(c *gin.Context, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "Internal server error"
	}
	c.JSON(code, response.Error(code, message))
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid or missing "+param))
		return uuid.Nil, false
	}
	return id, true
}

// actor builds the audit actor from the authenticated token
func actor(c *gin.Context) service.Actor {
	id, ok := middleware.SubjectID(c)
	if !ok {
		return service.SystemActor
	}
	if middleware.Role(c) == jwt.RoleDepartment {
		return service.DepartmentActor(id)
	}
	return service.AdminActor(id)
}

// queryDate parses an optional date query parameter
func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := service.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+key+": "+err.Error()))
		return nil, false
	}
	return &t, true
}
