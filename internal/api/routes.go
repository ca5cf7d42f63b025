package api

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(handler *Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	SetupRoutes(router, handler)
	return router
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.Health)

	api := router.Group("/api")
	{
		api.POST("/optimize-product", handler.OptimizeProduct)
		api.POST("/optimize-batch", handler.OptimizeBatch)
		api.GET("/batch-result/:batch_id", handler.GetBatchResult)
		api.GET("/batch-progress/:batch_id/ws", handler.WatchBatch)

		api.POST("/upload-csv", handler.UploadCSV)

		api.GET("/export/google-merchant/:batch_id", handler.ExportMerchantXML)
		api.GET("/export/meta-csv/:batch_id", handler.ExportSocialCSV)

		api.GET("/test-key", handler.TestKey)
		api.GET("/stats", handler.Stats)
	}
}
