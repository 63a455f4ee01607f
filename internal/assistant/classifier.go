package assistant

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
)

// asks the LLM for the query's intent; unknown replies and failures are general
func (a *Assistant) ClassifyIntent(ctx context.Context, query string) Intent {
	resp, err := a.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: fmt.Sprintf(intentSystemPrompt, a.profile.Name),
		Messages: []llm.Message{
			{Role: "user", Content: "Classify this query: " + query},
		},
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		logger.Warn("intent classification failed", "error", err)
		return IntentGeneral
	}

	return parseIntent(resp.Text)
}

func parseIntent(text string) Intent {
	intent := Intent(strings.ToLower(strings.TrimSpace(text)))
	if _, ok := validIntents[intent]; ok {
		return intent
	}

	return IntentGeneral
}

// asks the LLM whether the query concerns the company; only an exact "relevant" counts
func (a *Assistant) CheckRelevance(ctx context.Context, query string) bool {
	resp, err := a.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: fmt.Sprintf(relevanceSystemPrompt, a.profile.Name, shortName(a.profile.Name)),
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf("Is this query relevant to %s: %s", a.profile.Name, query)},
		},
		Temperature: 0.1,
		MaxTokens:   5,
	})
	if err != nil {
		logger.Warn("relevance check failed", "error", err)
		return false
	}

	return strings.ToLower(strings.TrimSpace(resp.Text)) == "relevant"
}
