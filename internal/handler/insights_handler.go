package handler

import (
	"net/http"
	"strings"
	"time"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"
	"inventory-api/pkg/jwt"
	"inventory-api/pkg/response"

	"github.com/gin-gonic/gin"
)

const dateOnly = "2006-01-02"

type InsightsHandler struct {
	insightsService service.InsightsService
	auth            *middleware.Auth
}

func NewInsightsHandler(insightsService service.InsightsService, auth *middleware.Auth) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService, auth: auth}
}

func (h *InsightsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/insight", h.auth.RequireRole(jwt.RoleAdmin), h.GetInsights)
}

// GetInsights returns dashboard totals
// @Summary      Inventory insights
// @Description  Totals over all items, or over items purchased between startDate and endDate
// @Tags         insights
// @Security     BearerAuth
// @Produce      json
// @Param        startDate  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200        {object}  response.Response{data=model.Insights}
// @Failure      400        {object}  response.Response
// @Router       /api/insight [get]
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	startDate, ok := queryDate(c, "startDate")
	if !ok {
		return
	}
	endDate, ok := queryDate(c, "endDate")
	if !ok {
		return
	}
	// A bare date covers the whole day
	if endDate != nil && len(strings.TrimSpace(c.Query("endDate"))) == len(dateOnly) {
		end := endDate.Add(24*time.Hour - time.Nanosecond)
		endDate = &end
	}

	insights, err := h.insightsService.GetInsights(c.Request.Context(), startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, insights))
}
