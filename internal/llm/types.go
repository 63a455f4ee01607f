package llm

import (
	"context"
	"fmt"
)

// represents different LLM providers
type Provider string

const (
	ProviderGroq      Provider = "groq"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderNone      Provider = "none"
)

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingModel() string
}

// generates text completions
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
	Model() string
}

type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// zero Temperature, TopP or MaxTokens fall back to the generator's configuration
type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	Temperature  float32
	TopP         float32
	MaxTokens    int
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// returned for non-200 provider responses
type APIError struct {
	Provider   Provider
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s API request failed with status %d [%s]: %s", e.Provider, e.StatusCode, e.Type, e.Message)
	}

	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// holds configuration for LLM initialization
type Config struct {
	// generator configuration
	GeneratorProvider    Provider
	GeneratorAPIKey      string
	GeneratorModel       string // e.g., "llama-3.1-8b-instant"
	GeneratorBaseURL     string // optional, overrides the provider endpoint
	GeneratorMaxTokens   int
	GeneratorTemperature float32
	GeneratorTopP        float32

	// embedder configuration
	EmbedderProvider Provider
	EmbedderAPIKey   string
	EmbedderModel    string // e.g., "text-embedding-3-small"
	EmbedderBaseURL  string
}
