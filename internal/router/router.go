// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/config"
	"github.com/boatchecker/boatchecker-backend/internal/handlers"
	"github.com/boatchecker/boatchecker-backend/internal/middleware"
	"github.com/boatchecker/boatchecker-backend/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config, loader *checklist.Loader) *gin.Engine {
	// Initialize services
	settingsService := services.NewSettingsService(db)
	boatModelService := services.NewBoatModelService(db)
	inspectionService := services.NewInspectionService(db)
	itemStateService := services.NewItemStateService(db)
	reconcileService := services.NewReconcileService(db, loader)
	accessService := services.NewAccessService(db)
	reportService := services.NewReportService(db, reconcileService)
	analyticsService := services.NewAnalyticsService(db, cfg.Analytics, cfg.AppVersion)
	entitlementService := services.NewEntitlementService(db)

	// Initialize handlers
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	boatModelHandler := handlers.NewBoatModelHandler(boatModelService)
	inspectionHandler := handlers.NewInspectionHandler(
		inspectionService, reconcileService, accessService, reportService, analyticsService, loader)
	itemStateHandler := handlers.NewItemStateHandler(itemStateService, cfg.Photos)
	insightsHandler := handlers.NewInsightsHandler(analyticsService)
	entitlementHandler := handlers.NewEntitlementHandler(entitlementService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.RequestLoggingMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   cfg.AppVersion,
			"languages": loader.Languages(),
		})
	})

	// Processed photos are served straight off disk.
	r.Static("/photos", cfg.Photos.Dir)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Settings
		settings := v1.Group("/settings")
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.PUT("", settingsHandler.UpdateSettings)
		}

		// Boat model catalog
		boatModels := v1.Group("/boat-models")
		{
			boatModels.GET("", boatModelHandler.GetBoatModels)
			boatModels.GET("/manufacturers", boatModelHandler.GetManufacturers)
			boatModels.GET("/:id", boatModelHandler.GetBoatModel)
		}

		// Inspections
		inspections := v1.Group("/inspections")
		{
			inspections.POST("", inspectionHandler.CreateInspection)
			inspections.GET("", inspectionHandler.GetInspections)
			inspections.GET("/active", inspectionHandler.GetActiveInspection)
			inspections.POST("/start-new", inspectionHandler.StartNew)
			inspections.GET("/:id", inspectionHandler.GetInspection)
			inspections.DELETE("/:id", inspectionHandler.DeleteInspection)
			inspections.POST("/:id/complete", inspectionHandler.CompleteInspection)
			inspections.POST("/:id/contribute", inspectionHandler.ContributeFindings)
			inspections.PUT("/:id/metadata", inspectionHandler.UpdateMetadata)
			inspections.POST("/:id/unlock", inspectionHandler.UnlockInspection)
			inspections.GET("/:id/checklist", inspectionHandler.GetChecklist)
			inspections.GET("/:id/rows", inspectionHandler.GetRows)
			inspections.GET("/:id/summary", inspectionHandler.GetSummary)
			inspections.GET("/:id/report", inspectionHandler.GetReport)
			inspections.POST("/:id/report/downloaded", inspectionHandler.MarkReportDownloaded)
		}

		// Live item states of the active session
		items := v1.Group("/items")
		{
			items.GET("", itemStateHandler.GetItemStates)
			items.GET("/:itemId", itemStateHandler.GetItemState)
			items.PUT("/:itemId/state", itemStateHandler.SetState)
			items.PUT("/:itemId/note", itemStateHandler.SetNote)
			items.POST("/:itemId/photo", itemStateHandler.UploadPhoto)
			items.DELETE("/:itemId/photo", itemStateHandler.DeletePhoto)
		}

		// Community insights and listing prefill
		v1.GET("/insights", insightsHandler.GetInsights)
		v1.GET("/listing-metadata", insightsHandler.GetListingMetadata)

		// Entitlements
		entitlement := v1.Group("/entitlement")
		{
			entitlement.GET("/offerings", entitlementHandler.GetOfferings)
			entitlement.PUT("", entitlementHandler.SetEntitlement)
		}
	}

	return r
}
