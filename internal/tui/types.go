package tui

import (
	"net/http"

	"codeberg.org/techcorp/supportbot/internal/knowledge"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state
type EnterChatMsg struct{}

// represents one message in the conversation
type MessageModel struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Metadata string `json:"metadata,omitempty"`
}

// support chat screen
type ChatModel struct {
	input              textinput.Model
	viewport           viewport.Model
	width              int
	height             int
	history            []MessageModel
	suggestions        []string
	conversationID     string
	isFetching         bool
	spinner            spinner.Model
	glamourRenderer    *glamour.TermRenderer
	ready              bool
	shouldScrollBottom bool
	client             *ChatClient
}

// sent when the server answers a chat message
type ChatResponseMsg struct {
	userMessage    string
	response       string
	metadata       string
	conversationID string
	suggestions    []string
}

// sent when a chat request fails
type ChatErrorMsg struct {
	userMessage string
	err         error
}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	status   string
	commands []Command
	client   *ChatClient
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// sent when the index status has been fetched
type StatusMsg struct {
	status knowledge.IndexStatus
}

// sent when the ingester completes
type IngesterCompleteMsg struct{}

// talks to the chatbot REST API
type ChatClient struct {
	endpoint   string
	httpClient *http.Client
}
