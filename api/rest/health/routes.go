package health

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", Handler)
	router.GET("/ping", PingHandler)
}
