package main

import (
	"time"

	"codeberg.org/techcorp/supportbot/api/rest/chat"
	"codeberg.org/techcorp/supportbot/api/rest/docs"
	"codeberg.org/techcorp/supportbot/api/rest/health"
	"codeberg.org/techcorp/supportbot/api/rest/knowledge"
	apiws "codeberg.org/techcorp/supportbot/api/websocket"
	ws "codeberg.org/techcorp/supportbot/internal/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	health.RegisterRoutes(router.Group(""))

	api := router.Group("/api")

	{
		health.RegisterRoutes(api)
		docs.RegisterRoutes(api)

		chat.RegisterRoutes(api, server.services.Assistant, server.services.Knowledge, server.limiter)
		knowledge.RegisterRoutes(api, server.services.Knowledge, server.config.MaxUploadBytes)

		// a new socket is limited like a chat request; frames are limited per client by the hub
		limited := api.Group("", server.limiter)
		apiws.RegisterRoutes(limited, server.hub, ws.NewOriginChecker(server.config.Environment, server.config.AllowedOrigins))
	}
}

// allows the configured origins, or any origin when the list contains "*"
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			return cors.New(corsConfig)
		}
	}

	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowCredentials = true

	return cors.New(corsConfig)
}
