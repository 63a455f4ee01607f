package conversations

import (
	"context"
	"errors"
	"time"
)

// maximum exchanges kept per conversation
const maxExchanges = 20

var ErrInvalidConversationID = errors.New("invalid conversation id")

// one customer message and the reply it got
type Exchange struct {
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Intent      string    `json:"intent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// keeps recent exchanges per conversation
type Store interface {
	Append(ctx context.Context, conversationID string, exchange Exchange) error
	Recent(ctx context.Context, conversationID string, n int) ([]Exchange, error)
	Close() error
}
