package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqGenerateText(t *testing.T) {
	var got chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  hello there \n"}}],"usage":{"prompt_tokens":12,"completion_tokens":3}}`)) //nolint:errcheck
	}))
	defer server.Close()

	gen := NewGroqGenerator(ChatCompletionsConfig{APIKey: "test-key", BaseURL: server.URL + "/"})

	resp, err := gen.GenerateText(context.Background(), TextGenerationRequest{
		SystemPrompt: "be nice",
		Messages:     []Message{{Role: "user", Content: "hi"}},
		Temperature:  0.1,
		MaxTokens:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)

	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be nice", got.Messages[0].Content)
	assert.InDelta(t, 0.1, got.Temperature, 1e-6)
	assert.InDelta(t, 0.9, got.TopP, 1e-6)
	assert.Equal(t, 10, got.MaxTokens)
}

func TestBuildRequestLimits(t *testing.T) {
	gen := NewGroqGenerator(ChatCompletionsConfig{APIKey: "k", Temperature: -1})

	t.Run("non-positive temperature is raised", func(t *testing.T) {
		req := gen.buildRequest(TextGenerationRequest{}, nil)
		assert.InDelta(t, minTemperature, req.Temperature, 1e-6)
	})

	t.Run("max tokens are capped", func(t *testing.T) {
		req := gen.buildRequest(TextGenerationRequest{MaxTokens: 100000}, nil)
		assert.Equal(t, maxRequestTokens, req.MaxTokens)
	})

	t.Run("defaults apply", func(t *testing.T) {
		req := gen.buildRequest(TextGenerationRequest{Temperature: 0.5}, nil)
		assert.Equal(t, defaultMaxTokens, req.MaxTokens)
		assert.InDelta(t, 0.5, req.Temperature, 1e-6)
	})
}

func TestGenerateTextAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	gen := NewOpenAIGenerator(ChatCompletionsConfig{APIKey: "k", BaseURL: server.URL})

	_, err := gen.GenerateText(context.Background(), TextGenerationRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request_error", apiErr.Type)
	assert.Equal(t, "model not found", apiErr.Message)
	assert.Equal(t, ProviderOpenAI, apiErr.Provider)
}

func TestGenerateTextRawErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down")) //nolint:errcheck
	}))
	defer server.Close()

	gen := NewGroqGenerator(ChatCompletionsConfig{APIKey: "k", BaseURL: server.URL})

	_, err := gen.GenerateText(context.Background(), TextGenerationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestAnthropicGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "system prompt", req.System)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"answer"}],"usage":{"input_tokens":5,"output_tokens":1}}`)) //nolint:errcheck
	}))
	defer server.Close()

	gen := NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: server.URL})

	resp, err := gen.GenerateText(context.Background(), TextGenerationRequest{
		SystemPrompt: "system prompt",
		Messages:     []Message{{Role: "user", Content: "q"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Text)
}

func TestOpenAIEmbedderOrdersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`)) //nolint:errcheck
	}))
	defer server.Close()

	emb := NewOpenAIEmbedder(OpenAIConfig{APIKey: "k", BaseURL: server.URL})

	vectors, err := emb.GenerateEmbeddings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
	assert.Equal(t, defaultEmbeddingModel, emb.EmbeddingModel())

	_, err = emb.GenerateEmbeddings(context.Background(), nil)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Run("groq default without embedder key", func(t *testing.T) {
		t.Setenv("GENERATOR_PROVIDER", "")
		t.Setenv("GENERATOR_MODEL", "")
		t.Setenv("GROQ_MODEL", "llama-3.3-70b-versatile")
		t.Setenv("GROQ_API_KEY", "g")
		t.Setenv("EMBEDDER_PROVIDER", "")
		t.Setenv("OPENAI_API_KEY", "")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderGroq, cfg.GeneratorProvider)
		assert.Equal(t, "llama-3.3-70b-versatile", cfg.GeneratorModel)
		assert.Equal(t, ProviderNone, cfg.EmbedderProvider)

		composite, err := NewLLMWithConfig(context.Background(), cfg)
		require.NoError(t, err)
		assert.False(t, composite.HasEmbedder())
		assert.Equal(t, "llama-3.3-70b-versatile", composite.Model())
	})

	t.Run("missing generator key", func(t *testing.T) {
		t.Setenv("GENERATOR_PROVIDER", "anthropic")
		t.Setenv("ANTHROPIC_API_KEY", "")

		_, err := loadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})

	t.Run("unsupported provider", func(t *testing.T) {
		_, err := NewLLMWithConfig(context.Background(), &Config{GeneratorProvider: "mystery"})
		assert.Error(t, err)
	})
}
