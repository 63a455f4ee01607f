package websocket

type ConnectParams struct {
	ConversationID string `form:"conversation_id" binding:"max=128"` // optional, generated when empty
}
