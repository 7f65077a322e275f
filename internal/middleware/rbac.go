package middleware

import (
	"errors"
	"net/http"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// RequirePermission runs the authorization engine for routes guarded by a
// single capability. Superadmins pass regardless of their stored grants. A
// capability missing from the catalog is a wiring fault and maps to 500 so
// it surfaces in monitoring instead of masquerading as a user denial.
func RequirePermission(authz *service.AuthzService, capability model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authz.Authorize(claims, capability, nil); err != nil {
			if errors.Is(err, service.ErrUnknownPermission) {
				response.AbortFail(c, http.StatusInternalServerError, response.ErrUnknownPermission)
				return
			}
			response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}

// RequireSuperadmin guards the admin-account management routes. Role only;
// the "users" grant exists for UI visibility and does not open these routes.
func RequireSuperadmin(authz *service.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authz.RequireSuperadmin(claims); err != nil {
			response.AbortFail(c, http.StatusForbidden, response.ErrSuperadminRequired)
			return
		}
		c.Next()
	}
}
