package websocket

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/google/uuid"
)

// builds a message with a JSON-encoded payload
func NewMessage(msgType, conversationID string, payload any) (*Message, error) {
	msg := &Message{
		Type:           msgType,
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
		}

		msg.Payload = raw
	}

	return msg, nil
}

// decodes the message payload into v
func (m *Message) UnmarshalPayload(v any) error {
	if len(m.Payload) == 0 {
		return ErrInvalidMessage
	}

	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	return nil
}

// returns an origin check for the upgrader; outside production every origin is accepted
func NewOriginChecker(environment string, allowedOrigins []string) func(r *http.Request) bool {
	allowAll := slices.Contains(allowedOrigins, "*")

	return func(r *http.Request) bool {
		if environment != "production" || allowAll {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			logger.Warn("websocket connection with no origin header")
			return false
		}

		if slices.Contains(allowedOrigins, origin) {
			return true
		}

		logger.Warn("websocket origin rejected - not in allowed origins",
			"origin", origin,
			"allowed_origins", allowedOrigins,
		)

		return false
	}
}

func GenerateClientID() string {
	return uuid.NewString()
}

func sanitizeDetails(details string) string {
	if details == "" {
		return ""
	}

	return errors.Sanitize(stderrors.New(details))
}
