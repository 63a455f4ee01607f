package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/techcorp/supportbot/internal/assistant"
	"github.com/gorilla/websocket"
)

// message type constants for websocket communication
const (
	// is sent by a client with a customer message
	TypeChatMessage = "chat_message"

	// is sent by server with the assistant's answer
	TypeChatResponse = "chat_response"

	// is sent by server while an answer is being prepared
	TypeTyping = "typing"

	// is sent to a client once it is registered
	TypeConnected = "connected"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	maxChatMessagesPerMinute = 20
	maxChatMessageSize       = 5000 // characters

	// upper bound for one pipeline run
	processTimeout = 60 * time.Second
)

// hub connection limit constants
const (
	maxConnectionsPerIP  = 10
	defaultShutdownGrace = 500 * time.Millisecond
)

// errors
var (
	ErrInvalidMessage      = errors.New("invalid message format")
	ErrConnectionClosed    = errors.New("connection closed")
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrMessageTooLarge     = errors.New("message too large")
	ErrEmptyMessage        = errors.New("message cannot be empty")
	ErrHubStopped          = errors.New("hub stopped")
	ErrTooManyConnections  = errors.New("too many connections")
	ErrInvalidConversation = errors.New("invalid conversation id")
)

// represents a websocket message with typed payload
type Message struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id,omitempty"`
	ClientID       string          `json:"-"` // internal only, not sent to clients
	Timestamp      time.Time       `json:"timestamp"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// contains a customer message
type ChatMessagePayload struct {
	Message string `json:"message"`
}

// contains the assistant's answer to one customer message
type ChatResponsePayload struct {
	MessageID          string             `json:"message_id"`
	ConversationID     string             `json:"conversation_id"`
	Response           string             `json:"response"`
	Confidence         float64            `json:"confidence"`
	Sources            []assistant.Source `json:"sources"`
	ContextUsed        bool               `json:"context_used"`
	SuggestedResponses []string           `json:"suggested_responses"`
	PDFAvailable       bool               `json:"pdf_available"`
	Timestamp          time.Time          `json:"timestamp"`
}

// contains the identifiers assigned to a new connection
type ConnectedPayload struct {
	ClientID       string `json:"client_id"`
	ConversationID string `json:"conversation_id"`
}

type TypingPayload struct {
	Typing bool `json:"typing"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// answers customer messages; satisfied by *assistant.Assistant
type ChatProcessor interface {
	ProcessMessage(ctx context.Context, message, conversationID string) (*assistant.Result, error)
}

// represents a websocket client connection
type Client struct {
	// unique identifier for this client
	ID string

	// IP address of the client (for connection tracking)
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// hub reference for message dispatch
	hub *Hub

	// buffered channel of outbound messages
	send chan []byte

	// mutex for thread-safe operations
	mu sync.RWMutex

	// conversation the next chat message belongs to
	conversationID string

	// flag indicating if client is closed
	closed bool

	// rate limiting: chat message timestamps (sliding window)
	chatMessageTimestamps []time.Time
}

// maintains the set of active chat clients and dispatches their messages
type Hub struct {
	// registered clients by client ID
	clients map[string]*Client

	// register requests from clients
	register chan *Client

	// unregister requests from clients
	unregister chan *Client

	// inbound messages from all clients
	inbound chan *Message

	// mutex for thread-safe access to clients
	mu sync.RWMutex

	// message handlers for different message types
	handlers map[string]MessageHandler

	// canceled on shutdown, parent of every handler context
	ctx    context.Context
	cancel context.CancelFunc

	// in-flight handler goroutines
	handlersWG sync.WaitGroup

	started      atomic.Bool
	shutdownOnce sync.Once
	shutdown     chan struct{}
	done         chan struct{}

	// how long clients get to read the shutdown notice
	shutdownGrace time.Duration

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int
}

// processes a specific message type
type MessageHandler func(hub *Hub, client *Client, msg *Message) error
