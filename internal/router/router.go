package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "vetcare/docs" // registers the OpenAPI document
	"vetcare/internal/auth/session"
	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/handler"
	"vetcare/internal/metrics"
	"vetcare/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Resource  *handler.ResourceHandler
	Sale      *handler.SaleHandler
	Sync      *handler.SyncHandler
	Patient   *handler.PatientRecordHandler
	AI        *handler.AIHandler
	Billing   *handler.BillingHandler
	Analytics *handler.AnalyticsHandler
	Health    *handler.HealthHandler
}

// Options carries the non-handler dependencies of the engine.
type Options struct {
	Validator middleware.TokenValidator
	Cookie    *session.TokenCookie
	CORS      config.CORSConfig
	StaticDir string
	ServerLog *zap.Logger
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(opts Options, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(opts.ServerLog))
	r.Use(middleware.Logger(opts.ServerLog))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(opts.CORS))

	// Ops
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/register-tenant", h.Auth.RegisterTenant)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password-confirm", h.Auth.ResetPassword)
	auth.POST("/logout", h.Auth.Logout)

	// Protected routes - require a valid token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Validator, opts.Cookie))
	protected.Use(middleware.TenantGuard())

	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/sync/bootstrap", h.Sync.Bootstrap)
	protected.GET("/sync/chats", h.Sync.Chats)

	staff := protected.Group("")
	staff.Use(middleware.RequireStaff())

	staff.POST("/sales", h.Sale.Create)
	staff.POST("/sales/", h.Sale.Create)

	staff.POST("/patients/:id/notes", h.Patient.AddNote)
	staff.POST("/patients/:id/attachments", h.Patient.UploadAttachment)
	protected.GET("/patients/:id/attachments/:attachmentId/url", h.Patient.AttachmentURL)

	ai := staff.Group("/ai")
	ai.POST("/summary", h.AI.Summary)
	ai.POST("/diagnosis", h.AI.Diagnosis)
	ai.POST("/identify", h.AI.Identify)

	analytics := staff.Group("/analytics")
	analytics.GET("/metrics", h.Analytics.Metrics)
	analytics.GET("/export", h.Analytics.Export)

	billing := protected.Group("/billing")
	billing.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleParentAdmin, domain.RoleSuperAdmin))
	billing.POST("/verify", h.Billing.Verify)

	// Generic collections
	protected.GET("/:collection", h.Resource.List)
	protected.POST("/:collection", h.Resource.Create)
	protected.GET("/:collection/:id", h.Resource.Get)
	protected.PUT("/:collection/:id", h.Resource.Update)
	protected.DELETE("/:collection/:id", h.Resource.Delete)

	r.NoRoute(spaFallback(opts.StaticDir))

	return r
}

// spaFallback answers unmatched /api paths with a JSON 404 and serves the
// single-page app for everything else.
func spaFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || staticDir == "" {
			handler.RespondError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			handler.RespondError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
