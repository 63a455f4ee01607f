package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openaiBaseURL = "https://api.openai.com/v1"

	defaultEmbeddingModel = "text-embedding-3-small"
	defaultMaxTokens      = 800
	defaultTemperature    = 0.3
	defaultTopP           = 0.9

	// groq rejects a zero temperature and caps completions per request
	minTemperature   = 0.1
	maxRequestTokens = 8192
)

// shared HTTP client for OpenAI-compatible chat completion calls
var chatHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// shared HTTP client for embedding calls
var embeddingHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// free-tier groq allows roughly 30 requests per minute
var groqRateLimiter = rate.NewLimiter(rate.Every(2*time.Second), 10)

var openaiRateLimiter = rate.NewLimiter(50, 10)

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	TopP        float32   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type ChatCompletionsConfig struct {
	APIKey      string
	Model       string
	BaseURL     string  // defaults to the provider endpoint
	MaxTokens   int     // default completion budget
	Temperature float32 // default temperature
	TopP        float32 // default nucleus sampling
}

// talks to any OpenAI-compatible /chat/completions endpoint
type ChatCompletionsGenerator struct {
	provider   Provider
	config     ChatCompletionsConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// creates a generator for the Groq API
func NewGroqGenerator(config ChatCompletionsConfig) *ChatCompletionsGenerator {
	if config.BaseURL == "" {
		config.BaseURL = groqBaseURL
	}

	if config.Model == "" {
		config.Model = defaultGroqModel
	}

	return newChatCompletionsGenerator(ProviderGroq, config, groqRateLimiter)
}

// creates a generator for the OpenAI API
func NewOpenAIGenerator(config ChatCompletionsConfig) *ChatCompletionsGenerator {
	if config.BaseURL == "" {
		config.BaseURL = openaiBaseURL
	}

	if config.Model == "" {
		config.Model = defaultOpenAIChat
	}

	return newChatCompletionsGenerator(ProviderOpenAI, config, openaiRateLimiter)
}

func newChatCompletionsGenerator(provider Provider, config ChatCompletionsConfig, limiter *rate.Limiter) *ChatCompletionsGenerator {
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	if config.TopP == 0 {
		config.TopP = defaultTopP
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &ChatCompletionsGenerator{
		provider:   provider,
		config:     config,
		httpClient: chatHTTPClient,
		limiter:    limiter,
	}
}

func (g *ChatCompletionsGenerator) Model() string {
	return g.config.Model
}

func (g *ChatCompletionsGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	messages := make([]message, 0, len(req.Messages)+1)

	if req.SystemPrompt != "" {
		messages = append(messages, message{Role: "system", Content: req.SystemPrompt})
	}

	for _, msg := range req.Messages {
		messages = append(messages, message(msg))
	}

	reqBody := g.buildRequest(req, messages)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	// rate limiting
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(g.provider, resp)
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &TextGenerationResponse{
		Text: strings.TrimSpace(apiResp.Choices[0].Message.Content),
		Usage: Usage{
			InputTokens:  apiResp.Usage.PromptTokens,
			OutputTokens: apiResp.Usage.CompletionTokens,
		},
	}, nil
}

// applies request overrides, then the provider limits
func (g *ChatCompletionsGenerator) buildRequest(req TextGenerationRequest, messages []message) chatRequest {
	temperature := g.config.Temperature
	if req.Temperature != 0 {
		temperature = req.Temperature
	}

	if temperature <= 0 {
		temperature = minTemperature
	}

	topP := g.config.TopP
	if req.TopP != 0 {
		topP = req.TopP
	}

	maxTokens := g.config.MaxTokens
	if req.MaxTokens != 0 {
		maxTokens = req.MaxTokens
	}

	if maxTokens > maxRequestTokens {
		maxTokens = maxRequestTokens
	}

	return chatRequest{
		Model:       g.config.Model,
		Messages:    messages,
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}
}

// reads {"error":{"message","type"}} when the body has it, the raw body otherwise
func decodeAPIError(provider Provider, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck

	apiErr := &APIError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Type = envelope.Error.Type
	}

	return apiErr
}

type embeddingRequest struct {
	Input    []string `json:"input"`
	Model    string   `json:"model"`
	Encoding string   `json:"encoding_format"`
}

type embeddingResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type OpenAIConfig struct {
	APIKey  string
	Model   string // e.g., "text-embedding-3-small"
	BaseURL string
}

type OpenAIEmbedder struct {
	config     OpenAIConfig
	httpClient *http.Client
}

func NewOpenAIEmbedder(config OpenAIConfig) *OpenAIEmbedder {
	if config.Model == "" {
		config.Model = defaultEmbeddingModel
	}

	if config.BaseURL == "" {
		config.BaseURL = openaiBaseURL
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &OpenAIEmbedder{
		config:     config,
		httpClient: embeddingHTTPClient,
	}
}

func (e *OpenAIEmbedder) EmbeddingModel() string {
	return e.config.Model
}

func (e *OpenAIEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return embeddings[0], nil
}

func (e *OpenAIEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	reqBody := embeddingRequest{
		Input:    texts,
		Model:    e.config.Model,
		Encoding: "float",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.config.BaseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.config.APIKey)

	if err := openaiRateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(ProviderOpenAI, resp)
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embResp.Data))
	}

	embeddings := make([][]float32, len(embResp.Data))
	for _, data := range embResp.Data {
		if data.Index < 0 || data.Index >= len(embeddings) {
			return nil, fmt.Errorf("embedding index %d out of range", data.Index)
		}

		embeddings[data.Index] = data.Embedding
	}

	return embeddings, nil
}
