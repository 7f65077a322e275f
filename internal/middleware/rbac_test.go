package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthService() *service.AuthService {
	return service.NewAuthService(&config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

// setClaims injects claims directly, standing in for RequireAdminJWT.
func setClaims(claims *service.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextKeyClaims, claims)
		}
		c.Next()
	}
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func doGet(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequirePermission(t *testing.T) {
	authz := service.NewAuthzService()

	tests := []struct {
		name       string
		claims     *service.Claims
		capability model.Permission
		wantStatus int
	}{
		{
			name:       "no claims",
			claims:     nil,
			capability: model.PermissionEvents,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "admin without grant",
			claims:     &service.Claims{AdminID: 1, Role: model.RoleAdmin, Permissions: []string{"members"}},
			capability: model.PermissionEvents,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin with grant",
			claims:     &service.Claims{AdminID: 1, Role: model.RoleAdmin, Permissions: []string{"events"}},
			capability: model.PermissionEvents,
			wantStatus: http.StatusOK,
		},
		{
			name:       "superadmin without grants",
			claims:     &service.Claims{AdminID: 2, Role: model.RoleSuperadmin, Permissions: []string{}},
			capability: model.PermissionEvents,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown capability surfaces as server fault",
			claims:     &service.Claims{AdminID: 1, Role: model.RoleAdmin, Permissions: []string{"events"}},
			capability: model.Permission("bogus"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/guarded", setClaims(tt.claims), RequirePermission(authz, tt.capability), ok)

			if w := doGet(router); w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireSuperadmin(t *testing.T) {
	authz := service.NewAuthzService()

	tests := []struct {
		name       string
		claims     *service.Claims
		wantStatus int
	}{
		{
			name:       "no claims",
			claims:     nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "fully granted admin still forbidden",
			claims:     &service.Claims{AdminID: 1, Role: model.RoleAdmin, Permissions: []string{"events", "members", "users"}},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "superadmin",
			claims:     &service.Claims{AdminID: 2, Role: model.RoleSuperadmin},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/guarded", setClaims(tt.claims), RequireSuperadmin(authz), ok)

			if w := doGet(router); w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireAdminJWT(t *testing.T) {
	auth := testAuthService()
	admin := &model.Admin{ID: 7, Role: model.RoleAdmin}

	token, err := auth.GenerateAdminToken(admin, []string{"events"})
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	router := gin.New()
	router.GET("/guarded", RequireAdminJWT(auth), func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.AdminID != 7 {
			t.Errorf("claims not propagated: %+v", claims)
		}
		c.Status(http.StatusOK)
	})

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("query token fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded?token="+token, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestOptionalAdminJWT(t *testing.T) {
	auth := testAuthService()
	admin := &model.Admin{ID: 3, Role: model.RoleSuperadmin}

	token, err := auth.GenerateAdminToken(admin, nil)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	router := gin.New()
	router.GET("/open", OptionalAdminJWT(auth), func(c *gin.Context) {
		if GetClaims(c) != nil {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNoContent)
	})

	t.Run("anonymous passes with no claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})

	t.Run("valid token sets claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
