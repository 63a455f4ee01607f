package websocket

import (
	"net/http"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
	ws "codeberg.org/techcorp/supportbot/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ChatSocket godoc
// @Summary Chat over a WebSocket
// @Description Upgrades to a WebSocket. Each chat_message frame is answered with a chat_response frame.
// @Tags chat
// @Param conversation_id query string false "Conversation to continue"
// @Success 101
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/chat/ws [get]
func WebSocketHandler(hub *ws.Hub, checkOrigin func(r *http.Request) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		conversationID := params.ConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		// check connection limits before accepting new connection
		ipAddress := c.ClientIP()
		if !hub.CanAcceptConnection(ipAddress) {
			errors.TooManyRequests(c, "maximum connections per IP address exceeded")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection", "ip", ipAddress)
			return
		}

		clientID := ws.GenerateClientID()
		client := ws.NewClient(clientID, conversationID, ipAddress, conn, hub)

		if !hub.Register(client) {
			conn.Close() //nolint:errcheck,gosec // hub already stopped
			return
		}

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"conversation_id", conversationID,
			"ip", ipAddress,
		)
	}
}
