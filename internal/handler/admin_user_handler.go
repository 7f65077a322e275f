package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/collectivefm/collective-backend/internal/middleware"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/collectivefm/collective-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AdminUserHandler handles admin account management. All routes sit behind
// the superadmin guard.
type AdminUserHandler struct {
	adminService *service.AdminService
	activity     *service.ActivityService
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(adminService *service.AdminService, activity *service.ActivityService) *AdminUserHandler {
	return &AdminUserHandler{adminService: adminService, activity: activity}
}

// List godoc
// GET /api/v1/admin/users
// Returns every admin with its stored permission set.
func (h *AdminUserHandler) List(c *gin.Context) {
	admins, err := h.adminService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admins": admins})
}

// SetPermissions godoc
// PATCH /api/v1/admin/users/:id/permissions
// Atomically replaces the target admin's stored permission set. Unknown keys
// are dropped; the change reaches the target's tokens only on their next
// login or password change.
func (h *AdminUserHandler) SetPermissions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetPermissionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.adminService.SetPermissions(c.Request.Context(), id, req.PermissionKeys); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	permissions, err := h.adminService.EffectivePermissions(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.activity.Publish(c.Request.Context(), "admin.permissions_changed", map[string]any{
		"admin_id":    id,
		"permissions": permissions,
	})

	response.Success(c, http.StatusOK, gin.H{"permissions": permissions})
}

// Delete godoc
// DELETE /api/v1/admin/users/:id
// Removes an admin account immediately; the linked member profile is
// archived in the same transaction. Self-deletion is rejected so the system
// cannot lose its last superadmin by accident.
func (h *AdminUserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.AdminID == id {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}

	if err := h.adminService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	h.activity.Publish(c.Request.Context(), "admin.deleted", map[string]any{
		"admin_id": id,
	})

	response.Success(c, http.StatusOK, gin.H{})
}
