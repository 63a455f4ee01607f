package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

var geminiRateLimiter = rate.NewLimiter(10, 5)

type GeminiConfig struct {
	APIKey      string
	Model       string // e.g., "gemini-2.0-flash"
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// generates text through the Gemini API
type GeminiGenerator struct {
	config GeminiConfig
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, config GeminiConfig) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	if config.TopP == 0 {
		config.TopP = defaultTopP
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{config: config, client: client}, nil
}

func (g *GeminiGenerator) Model() string {
	return g.config.Model
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))

	for _, msg := range req.Messages {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}

		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(firstNonZero(req.Temperature, g.config.Temperature)),
		TopP:            genai.Ptr(firstNonZero(req.TopP, g.config.TopP)),
		MaxOutputTokens: int32(firstNonZeroInt(req.MaxTokens, g.config.MaxTokens)), //nolint:gosec // bounded by config
	}

	if req.SystemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	if err := geminiRateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("no content in response")
	}

	usage := Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &TextGenerationResponse{Text: text, Usage: usage}, nil
}

func firstNonZero(values ...float32) float32 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}

	return 0
}

func firstNonZeroInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}

	return 0
}
