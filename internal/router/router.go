package router

import (
	"github.com/gin-gonic/gin"

	"loandocs/internal/handler"
	"loandocs/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	docH *handler.DocumentHandler,
	extH *handler.ExtractionHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Document routes
	docs := v1.Group("/documents")
	docs.POST("/upload", docH.Upload)
	docs.GET("", docH.List)
	docs.GET("/:id", docH.GetByID)
	docs.PUT("/:id/report", docH.UpdateReport)
	docs.DELETE("/:id", docH.Delete)

	// Extraction routes
	ext := v1.Group("/extraction")
	ext.GET("/export", extH.Export)
	ext.POST("/:id/process", extH.Process)
	ext.POST("/:id/reprocess", extH.Reprocess)
	ext.GET("/:id", extH.GetByDocument)
	ext.PUT("/:id", extH.UpdateFields)

	return r
}
