package router

import (
	"net/http"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/handler"
	"github.com/collectivefm/collective-backend/internal/middleware"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Member    *handler.MemberHandler
	Event     *handler.EventHandler
	AdminUser *handler.AdminUserHandler
	Media     *handler.MediaHandler
	Dashboard *handler.DashboardHandler
	Activity  *handler.ActivityHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	authzService *service.AuthzService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve uploaded media files statically with aggressive caching (1 year);
	// filenames are UUIDs and never reused.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiters. The contact relay gets a tight bucket because each
	// request produces outbound mail.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)

	// ─── 1. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/members", handlers.Member.ListPublic)
		publicAPI.GET("/members/:id", handlers.Member.GetPublic)
		publicAPI.POST("/members/:id/contact", contactLimiter.Middleware(), handlers.Member.Contact)
		publicAPI.GET("/events", handlers.Event.ListPublic)
	}

	// ─── 2. Auth Group (Rate Limited) ──────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		// Registration is token-optional: open on an empty system, superadmin
		// bearer token required afterwards. The service decides which.
		auth.POST("/register", middleware.OptionalAdminJWT(authService), handlers.Auth.Register)

		auth.GET("/me", middleware.RequireAdminJWT(authService), handlers.Auth.Me)
		auth.POST("/change-password", middleware.RequireAdminJWT(authService), handlers.Auth.ChangePassword)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminJWT(authService))
	{
		ws.GET("/admin/activity", handlers.Activity.Stream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Dashboard and media upload are open to any authenticated admin;
		// self-service profile editing needs uploads.
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboard)
		adminAPI.POST("/media/upload", handlers.Media.Upload)

		// Event management
		adminAPI.GET("/events/:id",
			middleware.RequirePermission(authzService, model.PermissionEvents),
			handlers.Event.Get,
		)
		adminAPI.POST("/events",
			middleware.RequirePermission(authzService, model.PermissionEvents),
			handlers.Event.Create,
		)
		adminAPI.PUT("/events/:id",
			middleware.RequirePermission(authzService, model.PermissionEvents),
			handlers.Event.Update,
		)
		adminAPI.DELETE("/events/:id",
			middleware.RequirePermission(authzService, model.PermissionEvents),
			handlers.Event.Delete,
		)

		// Member management. Get and Update skip the route-level guard:
		// the handler authorizes against the loaded row so an admin can
		// always edit their own linked profile.
		adminAPI.GET("/members",
			middleware.RequirePermission(authzService, model.PermissionMembers),
			handlers.Member.List,
		)
		adminAPI.POST("/members",
			middleware.RequirePermission(authzService, model.PermissionMembers),
			handlers.Member.Create,
		)
		adminAPI.GET("/members/:id", handlers.Member.Get)
		adminAPI.PUT("/members/:id", handlers.Member.Update)
		adminAPI.DELETE("/members/:id",
			middleware.RequirePermission(authzService, model.PermissionMembers),
			handlers.Member.Delete,
		)

		// Admin account management is role-gated, never capability-gated.
		adminAPI.GET("/users",
			middleware.RequireSuperadmin(authzService),
			handlers.AdminUser.List,
		)
		adminAPI.PATCH("/users/:id/permissions",
			middleware.RequireSuperadmin(authzService),
			handlers.AdminUser.SetPermissions,
		)
		adminAPI.DELETE("/users/:id",
			middleware.RequireSuperadmin(authzService),
			handlers.AdminUser.Delete,
		)
	}

	return router
}
