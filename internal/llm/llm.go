package llm

import (
	"context"
	"fmt"
)

// combines a TextGenerator and an optional Embedder
type CompositeLLM struct {
	TextGenerator
	Embedder
}

// reports whether embeddings can be generated
func (c *CompositeLLM) HasEmbedder() bool {
	return c.Embedder != nil
}

// creates a new LLM with auto-configuration from environment variables
func NewLLM(ctx context.Context) (*CompositeLLM, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewLLMWithConfig(ctx, config)
}

// creates a new LLM with explicit configuration
func NewLLMWithConfig(ctx context.Context, config *Config) (*CompositeLLM, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var textGenerator TextGenerator

	chat := ChatCompletionsConfig{
		APIKey:      config.GeneratorAPIKey,
		Model:       config.GeneratorModel,
		BaseURL:     config.GeneratorBaseURL,
		MaxTokens:   config.GeneratorMaxTokens,
		Temperature: config.GeneratorTemperature,
		TopP:        config.GeneratorTopP,
	}

	switch config.GeneratorProvider {
	case ProviderGroq:
		textGenerator = NewGroqGenerator(chat)
	case ProviderOpenAI:
		textGenerator = NewOpenAIGenerator(chat)
	case ProviderAnthropic:
		textGenerator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.GeneratorAPIKey,
			Model:       config.GeneratorModel,
			BaseURL:     config.GeneratorBaseURL,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
		})
	case ProviderGemini:
		gemini, err := NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:      config.GeneratorAPIKey,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
			TopP:        config.GeneratorTopP,
		})
		if err != nil {
			return nil, err
		}

		textGenerator = gemini
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", config.GeneratorProvider)
	}

	var embedder Embedder

	switch config.EmbedderProvider {
	case ProviderOpenAI:
		embedder = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:  config.EmbedderAPIKey,
			Model:   config.EmbedderModel,
			BaseURL: config.EmbedderBaseURL,
		})
	case ProviderNone, "":
		embedder = nil
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", config.EmbedderProvider)
	}

	return &CompositeLLM{
		TextGenerator: textGenerator,
		Embedder:      embedder,
	}, nil
}
