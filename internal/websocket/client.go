package websocket

import (
	"encoding/json"
	"time"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/gorilla/websocket"
)

// creates a new webSocket client connection
func NewClient(id, conversationID, ipAddress string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:                    id,
		IPAddress:             ipAddress,
		conn:                  conn,
		hub:                   hub,
		send:                  make(chan []byte, 64),
		conversationID:        conversationID,
		chatMessageTimestamps: make([]time.Time, 0, maxChatMessagesPerMinute),
	}
}

// returns the conversation this client is currently talking in
func (c *Client) ConversationID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conversationID
}

// switches to id when a frame names a conversation, returns the active one
func (c *Client) useConversation(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != "" {
		c.conversationID = id
	}

	return c.conversationID
}

// reads messages from the webSocket connection to the hub for processing
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"error", err,
				)
			}

			break
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			logger.Debug("failed to unmarshal message",
				"client_id", c.ID,
				"error", err,
			)

			c.SendError(errors.CodeBadRequest, "invalid message format", err.Error())
			continue
		}

		msg.ClientID = c.ID
		msg.Timestamp = time.Now()

		if !c.hub.Submit(&msg) {
			break
		}
	}
}

// writes messages from the hub to the webSocket connection for sending to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			// one frame per message, clients parse each frame as a single JSON document
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sends a message to the client
func (c *Client) Send(msg *Message) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// channel is full, the client is not reading
		go c.Close()
		return ErrConnectionClosed
	}
}

// sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	errorMsg, err := NewMessage(TypeError, c.ConversationID(), errors.ErrorResponse{
		Error:   code,
		Message: message,
		Details: sanitizeDetails(details),
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create error message",
			"client_id", c.ID,
			"error_code", code,
		)
		return
	}

	c.Send(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}

// checks if the client can send a chat message
func (c *Client) checkChatRateLimit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	oneMinuteAgo := now.Add(-1 * time.Minute)

	// remove timestamps older than 1 minute
	validTimestamps := make([]time.Time, 0, maxChatMessagesPerMinute)
	for _, ts := range c.chatMessageTimestamps {
		if ts.After(oneMinuteAgo) {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	c.chatMessageTimestamps = validTimestamps

	if len(c.chatMessageTimestamps) >= maxChatMessagesPerMinute {
		return false
	}

	c.chatMessageTimestamps = append(c.chatMessageTimestamps, now)
	return true
}
