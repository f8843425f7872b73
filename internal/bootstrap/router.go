package bootstrap

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahan-dev/portfolio-backend/internal/admins"
	httpapi "github.com/sahan-dev/portfolio-backend/internal/api/http"
	"github.com/sahan-dev/portfolio-backend/internal/api/http/middleware"
	"github.com/sahan-dev/portfolio-backend/internal/auth"
	"github.com/sahan-dev/portfolio-backend/internal/contact"
	"github.com/sahan-dev/portfolio-backend/internal/experience"
	"github.com/sahan-dev/portfolio-backend/internal/projects"
	"github.com/sahan-dev/portfolio-backend/internal/ratelimit"
	"github.com/sahan-dev/portfolio-backend/internal/sitecache"
	"github.com/sahan-dev/portfolio-backend/internal/uploads"
)

type RouterDeps struct {
	ServiceName   string
	Version       string
	DB            *pgxpool.Pool
	Verifier      auth.TokenVerifier
	Cache         *sitecache.Cache
	Uploader      *uploads.Uploader
	Limits        *ratelimit.Registry
	AllowedOrigin string
	AdminEmails   string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(corsMiddleware(dep.AllowedOrigin))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Cache)

	// unlimited probe endpoint for orchestration
	r.GET("/healthz", healthHandler.HealthCheck)

	api := r.Group("/api")
	api.Use(dep.Limits.Middleware())

	healthHandler.RegisterRoutes(api)

	adminRepo := admins.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)
	experienceRepo := experience.NewRepo(dep.DB)
	contactRepo := contact.NewRepo(dep.DB)

	requireAuth := auth.RequireAuth(dep.Verifier)
	requireAdmin := auth.RequireAdmin(adminRepo)

	// public reads and admin writes share path prefixes; the admin groups
	// carry the auth middleware.
	projects.Register(
		api.Group("/projects"),
		api.Group("/projects", requireAuth, requireAdmin),
		projectRepo, dep.Cache)

	experience.Register(
		api.Group("/experiences"),
		api.Group("/experiences", requireAuth, requireAdmin),
		experienceRepo, dep.Cache)

	contact.Register(
		api.Group("/contact"),
		api.Group("/admin/messages", requireAuth, requireAdmin),
		contactRepo)

	adminHandler := admins.NewHandler(adminRepo, dep.AdminEmails)
	adminHandler.Register(api.Group("/admin", requireAuth))
	adminHandler.RegisterProtected(api.Group("/admin", requireAuth, requireAdmin))

	if dep.Uploader != nil {
		uploads.Register(api.Group("/upload", requireAuth, requireAdmin), dep.Uploader)
	}

	return r
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Authorization", "Content-Type", "X-Request-Id"}
	cfg.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "X-Request-Id"}

	if allowedOrigin == "" || allowedOrigin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(allowedOrigin, ",")
	}

	return cors.New(cfg)
}
