package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"codeberg.org/techcorp/supportbot/api/rest/chat"
	apierrors "codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/knowledge"
	tea "github.com/charmbracelet/bubbletea"
)

// timeout for chat requests; generation runs several model calls
const chatRequestTimeout = 90 * time.Second

const statusRequestTimeout = 10 * time.Second

// creates a client for SUPPORTBOT_API_ENDPOINT, or the local server
func NewChatClient() *ChatClient {
	endpoint := os.Getenv("SUPPORTBOT_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:5000"
	}

	return NewChatClientWithEndpoint(endpoint)
}

func NewChatClientWithEndpoint(endpoint string) *ChatClient {
	return &ChatClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: chatRequestTimeout,
		},
	}
}

// sends one message to /api/chat
func (c *ChatClient) Send(ctx context.Context, message, conversationID string) (*chat.Response, error) {
	payload := struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id,omitempty"`
	}{
		Message:        message,
		ConversationID: conversationID,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	var result chat.Response
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// fetches /api/index-status
func (c *ChatClient) Status(ctx context.Context) (*knowledge.IndexStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/index-status", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var status knowledge.IndexStatus
	if err := c.do(req, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *ChatClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// handle error responses
	if resp.StatusCode != http.StatusOK {
		var errResp apierrors.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// returns a tea.Cmd that sends a chat message
func (c *ChatClient) SendCmd(message, conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
		defer cancel()

		resp, err := c.Send(ctx, message, conversationID)
		if err != nil {
			return ChatErrorMsg{userMessage: message, err: err}
		}

		return ChatResponseMsg{
			userMessage:    message,
			response:       resp.Response,
			metadata:       formatMetadata(resp),
			conversationID: resp.ConversationID,
			suggestions:    resp.SuggestedResponses,
		}
	}
}

// returns a tea.Cmd that fetches the index status
func (c *ChatClient) StatusCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statusRequestTimeout)
		defer cancel()

		status, err := c.Status(ctx)
		if err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to fetch index status: %w", err)}
		}

		return StatusMsg{status: *status}
	}
}
