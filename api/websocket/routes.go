package websocket

import (
	"net/http"

	ws "codeberg.org/techcorp/supportbot/internal/websocket"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub, checkOrigin func(r *http.Request) bool) {
	router.GET("/chat/ws", WebSocketHandler(hub, checkOrigin))
}
