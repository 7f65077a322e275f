package handler

import (
	"net/http"

	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the back-office landing metrics.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// GET /api/v1/admin/dashboard
// Returns summary counts and the newest members. Open to any authenticated
// admin.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	data, err := h.dashboardService.GetDashboardData(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, data)
}
