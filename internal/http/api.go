package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	listings service.ListingService
	exports  service.ExportService
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewHandler(auth service.AuthService, listings service.ListingService, exports service.ExportService, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		auth:     auth,
		listings: listings,
		exports:  exports,
		log:      logger,
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), h.requestLogger(), h.recovery(), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
		})

		api.GET("/jobs", h.listPublicListings)
		api.GET("/jobs/:id", h.getListing)

		requireAdmin := h.requireAuth()
		api.POST("/jobs", requireAdmin, h.createListing)
		api.PUT("/jobs/:id", requireAdmin, h.updateListing)
		api.DELETE("/jobs/:id", requireAdmin, h.deleteListing)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", h.login)

		authed := admin.Group("", h.requireAuth())
		authed.GET("/profile", h.getProfile)
		authed.PUT("/profile", h.updateProfile)
		authed.PUT("/change-password", h.changePassword)
		authed.POST("/register", requireRole(domain.RoleSuperAdmin), h.register)

		authed.GET("/jobs", h.listAdminListings)
		authed.GET("/jobs/:id", h.getListing)
		authed.GET("/stats/overview", h.stats)

		authed.GET("/jobs/export", h.exportCSV)
		authed.POST("/jobs/export/snapshots", h.createSnapshot)
		authed.GET("/jobs/export/snapshots", h.listSnapshots)
		authed.GET("/jobs/export/snapshots/url", h.snapshotURL)
		authed.DELETE("/jobs/export/snapshots", h.deleteSnapshot)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
