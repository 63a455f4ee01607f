package chat

import "github.com/gin-gonic/gin"

// registers the chat route behind the given middleware (rate limiting)
func RegisterRoutes(router *gin.RouterGroup, responder Responder, status StatusReporter, middleware ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	handlers = append(handlers, Handler(responder, status))

	router.POST("/chat", handlers...)
}
