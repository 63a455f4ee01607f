package docs

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/docs/swagger.json", SwaggerHandler)
}
