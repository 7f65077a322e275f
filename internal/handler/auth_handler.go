package handler

import (
	"errors"
	"net/http"

	"github.com/collectivefm/collective-backend/internal/middleware"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/collectivefm/collective-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login, and session endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	adminService *service.AdminService
	activity     *service.ActivityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	adminService *service.AdminService,
	activity *service.ActivityService,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		adminService: adminService,
		activity:     activity,
	}
}

// Register godoc
// POST /api/v1/auth/register
// Creates an admin account. Open only while the system has zero admins (and
// then the role must be superadmin); afterwards a superadmin bearer token is
// required.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	admin, err := h.adminService.Register(c.Request.Context(), claims, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFirstAdminRole):
			response.Fail(c, http.StatusBadRequest, response.ErrFirstAdminRole)
		case errors.Is(err, service.ErrAuthRequired):
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		case errors.Is(err, service.ErrPermissionDenied):
			response.Fail(c, http.StatusForbidden, response.ErrSuperadminRequired)
		case errors.Is(err, service.ErrUsernameTaken):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"admin": adminJSON(admin),
	})
}

// Login godoc
// POST /api/v1/auth/login
// Validates username + password and mints a session token carrying the
// current permission snapshot.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	permissions, err := h.adminService.EffectivePermissions(c.Request.Context(), admin.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateAdminToken(admin, permissions)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.activity.Publish(c.Request.Context(), "admin.login", map[string]any{
		"admin_id": admin.ID,
		"username": admin.Username,
	})

	response.Success(c, http.StatusOK, gin.H{
		"token":       token,
		"admin":       adminJSON(admin),
		"permissions": permissions,
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated admin's profile and current stored permission
// set. The set may be newer than the one inside the presented token; denials
// still follow the token snapshot until re-login.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.AdminID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	permissions, err := h.adminService.EffectivePermissions(c.Request.Context(), admin.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       adminJSON(admin),
		"permissions": permissions,
	})
}

// ChangePassword godoc
// POST /api/v1/auth/change-password
// Rotates the admin's password and re-mints the token so the new claims
// carry must_change_password=false and a fresh permission snapshot.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.ChangePassword(c.Request.Context(), claims.AdminID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	permissions, err := h.adminService.EffectivePermissions(c.Request.Context(), admin.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateAdminToken(admin, permissions)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"admin": adminJSON(admin),
	})
}

func adminJSON(admin *model.Admin) gin.H {
	return gin.H{
		"id":                   admin.ID,
		"username":             admin.Username,
		"role":                 admin.Role,
		"must_change_password": admin.MustChangePassword,
	}
}
