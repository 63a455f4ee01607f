package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatClientSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what do you offer?", body["message"])
		assert.Equal(t, "conv-1", body["conversation_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation_id":"conv-1","response":"We offer cloud services.","confidence":0.8,"context_used":true,"sources":[{"title":"Services","similarity":0.7}],"suggested_responses":["Tell me about pricing"]}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewChatClientWithEndpoint(server.URL + "/")

	resp, err := client.Send(context.Background(), "what do you offer?", "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "We offer cloud services.", resp.Response)
	assert.Equal(t, "confidence: 80% | sources: Services", formatMetadata(resp))
}

func TestChatClientErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad_request","message":"Message cannot be empty"}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewChatClientWithEndpoint(server.URL)

	_, err := client.Send(context.Background(), " ", "")
	require.Error(t, err)
	assert.Equal(t, "bad_request: Message cannot be empty", err.Error())
}

func TestChatClientRawErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down")) //nolint:errcheck
	}))
	defer server.Close()

	_, err := NewChatClientWithEndpoint(server.URL).Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestChatClientStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/index-status", r.URL.Path)
		_, _ = w.Write([]byte(`{"vector_available":true,"legacy_available":true,"documents_count":42,"vector_count":42,"embeddings_model":"text-embedding-3-small"}`)) //nolint:errcheck
	}))
	defer server.Close()

	status, err := NewChatClientWithEndpoint(server.URL).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, status.DocumentsCount)
	assert.Equal(t, "chunks: 42 | search: vector (42 embeddings, text-embedding-3-small)", formatStatus(*status))
}
