package chat

import (
	"context"
	"time"

	"codeberg.org/techcorp/supportbot/internal/assistant"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
)

const internalErrorMessage = "Sorry, we encountered an error processing your request. Please try again later or contact support."

// answers customer messages; satisfied by *assistant.Assistant
type Responder interface {
	ProcessMessage(ctx context.Context, message, conversationID string) (*assistant.Result, error)
}

// reports the search index state; satisfied by *knowledge.Service
type StatusReporter interface {
	IndexStatus(ctx context.Context) knowledge.IndexStatus
}

// Request represents the request body for a chat message
type Request struct {
	Message        *string `json:"message"`
	ConversationID string  `json:"conversation_id" binding:"max=128"`
}

// Response represents the assistant's answer to one message
type Response struct {
	MessageID          string             `json:"message_id"`
	ConversationID     string             `json:"conversation_id"`
	Response           string             `json:"response"`
	Confidence         float64            `json:"confidence"`
	Sources            []assistant.Source `json:"sources"`
	ContextUsed        bool               `json:"context_used"`
	Timestamp          time.Time          `json:"timestamp"`
	SuggestedResponses []string           `json:"suggested_responses"`
	PDFAvailable       bool               `json:"pdf_available"`
	Debug              Debug              `json:"debug"`
}

type Debug struct {
	IndexStatus      knowledge.IndexStatus `json:"index_status"`
	MessageProcessed string                `json:"message_processed"`
}
