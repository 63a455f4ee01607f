package knowledge

import (
	"codeberg.org/techcorp/supportbot/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, service Service, maxUploadBytes int64) {
	router.GET("/index-status", IndexStatus(service))
	router.GET("/knowledge-base/status", KnowledgeBaseStatus(service))
	router.GET("/test-pdf-processing", TestPDFProcessing(service))

	// admin operations
	admin := router.Group("")
	admin.Use(auth.AdminMiddleware())
	{
		admin.POST("/rebuild-index", RebuildIndex(service))
		admin.POST("/upload-documents", UploadDocuments(service, maxUploadBytes))
		admin.POST("/reset-rag-service", ResetService(service))
	}
}
