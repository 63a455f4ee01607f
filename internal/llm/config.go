package llm

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultGroqModel      = "llama-3.1-8b-instant"
	defaultOpenAIChat     = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-haiku-20240307"
	defaultGeminiModel    = "gemini-2.0-flash"
)

// loads LLM configuration from environment variables
func loadConfig() (*Config, error) {
	generatorProvider := Provider(os.Getenv("GENERATOR_PROVIDER"))
	if generatorProvider == "" {
		generatorProvider = ProviderGroq
	}

	generatorAPIKey := apiKeyFor(generatorProvider)
	if generatorAPIKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", apiKeyEnv(generatorProvider))
	}

	generatorModel := os.Getenv("GENERATOR_MODEL")
	if generatorModel == "" && generatorProvider == ProviderGroq {
		generatorModel = os.Getenv("GROQ_MODEL")
	}

	if generatorModel == "" {
		generatorModel = defaultModelFor(generatorProvider)
	}

	generatorMaxTokens := defaultMaxTokens
	if maxTokensStr := os.Getenv("GENERATOR_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			generatorMaxTokens = val
		}
	}

	generatorTemperature := float32(defaultTemperature)
	if tempStr := os.Getenv("GENERATOR_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			generatorTemperature = float32(val)
		}
	}

	// embeddings are optional: without a key the vector index stays unavailable
	embedderProvider := Provider(os.Getenv("EMBEDDER_PROVIDER"))
	if embedderProvider == "" {
		embedderProvider = ProviderOpenAI
	}

	embedderAPIKey := apiKeyFor(embedderProvider)
	if embedderAPIKey == "" {
		embedderProvider = ProviderNone
	}

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultEmbeddingModel
	}

	return &Config{
		GeneratorProvider:    generatorProvider,
		GeneratorAPIKey:      generatorAPIKey,
		GeneratorModel:       generatorModel,
		GeneratorBaseURL:     os.Getenv("GENERATOR_BASE_URL"),
		GeneratorMaxTokens:   generatorMaxTokens,
		GeneratorTemperature: generatorTemperature,
		GeneratorTopP:        defaultTopP,
		EmbedderProvider:     embedderProvider,
		EmbedderAPIKey:       embedderAPIKey,
		EmbedderModel:        embedderModel,
		EmbedderBaseURL:      os.Getenv("EMBEDDER_BASE_URL"),
	}, nil
}

func apiKeyEnv(provider Provider) string {
	switch provider {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func apiKeyFor(provider Provider) string {
	env := apiKeyEnv(provider)
	if env == "" {
		return ""
	}

	return os.Getenv(env)
}

func defaultModelFor(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return defaultOpenAIChat
	case ProviderAnthropic:
		return defaultAnthropicModel
	case ProviderGemini:
		return defaultGeminiModel
	default:
		return defaultGroqModel
	}
}
