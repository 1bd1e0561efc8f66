package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/handlers"
	"github.com/status-beacon/beacon/internal/middleware"
	"github.com/status-beacon/beacon/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)
		api.POST("/auth/login", handlers.Login)
		api.GET("/ws", handlers.StatusStream)

		api.GET("/services", handlers.ListServices)
		api.GET("/services/:service_id", handlers.GetService)
		api.GET("/services/:service_id/status", handlers.GetCurrentStatus)
		api.GET("/services/:service_id/status/history", handlers.GetStatusHistory)
		api.GET("/services/:service_id/incidents", handlers.ListServiceIncidents)
		api.GET("/incidents", handlers.ListOpenIncidents)
		api.GET("/dashboard", handlers.GetDashboard)

		protected := api.Group("", middleware.AuthMiddleware())
		{
			protected.POST("/services", handlers.CreateService)
			protected.PATCH("/services/:service_id/deactivate", handlers.DeactivateService)
			protected.DELETE("/services/:service_id", handlers.DeleteService)

			// Ingestion boundary for external pollers
			protected.POST("/services/:service_id/status", handlers.ReportStatus)
		}
	}

	return r
}
