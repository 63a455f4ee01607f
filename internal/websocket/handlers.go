package websocket

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/google/uuid"
)

// handles customer chat messages
func ChatHandler(processor ChatProcessor) MessageHandler {
	return func(hub *Hub, client *Client, msg *Message) error {
		if !client.checkChatRateLimit() {
			client.SendError(errors.CodeTooManyRequests, "too many messages. maximum 20 per minute.", "")
			return nil
		}

		var payload ChatMessagePayload
		if err := msg.UnmarshalPayload(&payload); err != nil {
			client.SendError(errors.CodeValidationError, "failed to parse chat message", err.Error())
			return nil
		}

		text := strings.TrimSpace(payload.Message)
		if text == "" {
			client.SendError(errors.CodeBadRequest, "Message cannot be empty", "")
			return nil
		}

		if utf8.RuneCountInString(text) > maxChatMessageSize {
			client.SendError(errors.CodeBadRequest, fmt.Sprintf("message exceeds maximum length of %d characters", maxChatMessageSize), "")
			return nil
		}

		conversationID := client.useConversation(msg.ConversationID)

		sendTyping(client, conversationID, true)
		defer sendTyping(client, conversationID, false)

		ctx, cancel := context.WithTimeout(hub.ctx, processTimeout)
		defer cancel()

		result, err := processor.ProcessMessage(ctx, text, conversationID)
		if err != nil {
			return fmt.Errorf("failed to process chat message: %w", err)
		}

		reply, err := NewMessage(TypeChatResponse, conversationID, ChatResponsePayload{
			MessageID:          uuid.NewString(),
			ConversationID:     conversationID,
			Response:           result.Response,
			Confidence:         result.Confidence,
			Sources:            result.Sources,
			ContextUsed:        result.ContextUsed,
			SuggestedResponses: result.SuggestedResponses,
			PDFAvailable:       result.PDFAvailable,
			Timestamp:          time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		logger.Debug("chat message answered",
			"client_id", client.ID,
			"conversation_id", conversationID,
			"intent", result.Intent,
			"context_used", result.ContextUsed,
		)

		return client.Send(reply)
	}
}

// responds to keepalive pings
func PingHandler() MessageHandler {
	return func(_ *Hub, client *Client, _ *Message) error {
		pongMsg, err := NewMessage(TypePong, client.ConversationID(), nil)
		if err != nil {
			return err
		}

		client.Send(pongMsg) //nolint:errcheck,gosec // best-effort pong
		return nil
	}
}

func sendTyping(client *Client, conversationID string, typing bool) {
	msg, err := NewMessage(TypeTyping, conversationID, TypingPayload{Typing: typing})
	if err != nil {
		return
	}

	client.Send(msg) //nolint:errcheck,gosec // best-effort indicator
}
