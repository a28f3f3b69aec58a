package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/controllers"
	_ "github.com/Amadou-dot/infrasight-sub001/docs"
	"github.com/Amadou-dot/infrasight-sub001/middleware"
	"github.com/Amadou-dot/infrasight-sub001/services/container"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS for the dashboard frontend
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-User")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg)

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")

	// Health check
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Device routes
	devices := api.Group("/devices")
	devices.GET("", middleware.Cache(), controllers.HandleDeviceFunc(container, "getDevices"))
	devices.GET("/:id", controllers.HandleDeviceFunc(container, "getDevice"))
	devices.POST("", controllers.HandleDeviceFunc(container, "createDevice"))
	devices.PATCH("/:id", controllers.HandleDeviceFunc(container, "updateDevice"))
	devices.DELETE("/:id", controllers.HandleDeviceFunc(container, "deleteDevice"))
	devices.GET("/:id/audit", controllers.HandleAuditFunc(container, "getDeviceHistory"))

	// Reading ingest
	api.POST("/readings/bulk", controllers.HandleReadingFunc(container, "bulkInsert"))

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.GET("/health", controllers.HandleAnalyticsFunc(container, "getFleetHealth"))
	analytics.GET("/anomalies", controllers.HandleAnalyticsFunc(container, "getAnomalyReport"))
	analytics.GET("/temperature/:id", controllers.HandleAnalyticsFunc(container, "getTemperatureCorrelation"))

	// Audit feed
	api.GET("/audit", controllers.HandleAuditFunc(container, "getGlobalFeed"))

	// Dashboard
	api.GET("/dashboard/summary", middleware.Cache(), controllers.HandleAnalyticsFunc(container, "getDashboardSummary"))
}
