package server

import (
	"github.com/almas-d/gogallery/internal/admin"
	"github.com/almas-d/gogallery/internal/auth"
	"github.com/almas-d/gogallery/internal/config"
	"github.com/almas-d/gogallery/internal/gallery"
	"github.com/almas-d/gogallery/internal/logger"
	"github.com/almas-d/gogallery/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	Logger         *zap.Logger
	DB             *pgxpool.Pool
	ObjectStore    *minio.Client
	AuthService    *auth.Service
	GalleryService *gallery.Service
	AdminService   *admin.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if deps.Logger != nil {
		router.Use(logger.Middleware(deps.Logger))
	}
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/v1")
	if deps.AuthService != nil {
		auth.RegisterRoutes(api, deps.AuthService)

		protected := api.Group("/")
		protected.Use(auth.AuthMiddleware(deps.AuthService))

		if deps.GalleryService != nil {
			gallery.RegisterRoutes(protected, deps.GalleryService)
		}
		if deps.AdminService != nil {
			adminGroup := protected.Group("/admin")
			adminGroup.Use(auth.RequireAdminMiddleware())
			admin.RegisterRoutes(adminGroup, deps.AdminService)
		}
	}

	return router
}
