package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/retriever"
)

var ErrEmptyMessage = errors.New("message is required")

// classifies the message, answers it and records the exchange
func (a *Assistant) ProcessMessage(ctx context.Context, message, conversationID string) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	var (
		intent   Intent
		relevant bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		intent = a.ClassifyIntent(gctx, message)
		return nil
	})

	g.Go(func() error {
		relevant = a.CheckRelevance(gctx, message)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	history := a.recentHistory(ctx, conversationID)

	result := a.answer(ctx, message, intent, relevant, history)
	result.Intent = intent
	result.PDFAvailable = a.knowledge.PDFInfo().Available

	a.record(ctx, conversationID, conversations.Exchange{
		UserMessage: message,
		BotResponse: result.Response,
		Intent:      string(intent),
		Timestamp:   time.Now(),
	})

	return result, nil
}

func (a *Assistant) answer(ctx context.Context, message string, intent Intent, relevant bool, history []conversations.Exchange) *Result {
	switch {
	case intent == IntentGreeting:
		return &Result{
			Response:           a.Greeting(ctx),
			Confidence:         confidenceSmallTalk,
			Sources:            []Source{},
			SuggestedResponses: a.DefaultSuggestions(),
		}

	case intent == IntentFarewell:
		return &Result{
			Response:           a.Farewell(ctx),
			Confidence:         confidenceSmallTalk,
			Sources:            []Source{},
			SuggestedResponses: []string{},
		}

	case !relevant:
		return a.noInformation(message, confidenceIrrelevant)
	}

	matches, err := a.knowledge.Search(ctx, message, a.topK)
	if err != nil {
		logger.Error("knowledge base search failed",
			"error", err,
			"query_length", len(message),
		)

		return a.noInformation(message, confidenceError)
	}

	if len(matches) == 0 {
		return a.noInformation(message, confidenceNoMatches)
	}

	return &Result{
		Response:           a.GenerateRAGAnswer(ctx, message, matches, history),
		Confidence:         confidenceFor(matches),
		ContextUsed:        true,
		Sources:            sourcesFor(matches),
		SuggestedResponses: a.SuggestedResponses(message),
	}
}

func (a *Assistant) noInformation(message string, confidence float64) *Result {
	return &Result{
		Response:           a.NoInformationResponse(message),
		Confidence:         confidence,
		Sources:            []Source{},
		SuggestedResponses: a.DefaultSuggestions(),
	}
}

// mean similarity clamped to [0.7, 0.95]
func confidenceFor(matches []retriever.SearchResult) float64 {
	total := 0.0
	for _, m := range matches {
		total += m.Similarity
	}

	mean := total / float64(len(matches))

	return min(confidenceCeiling, max(confidenceFloor, mean))
}

func sourcesFor(matches []retriever.SearchResult) []Source {
	sources := make([]Source, len(matches))

	for i, m := range matches {
		title := m.Title
		if title == "" {
			title = "Unknown"
		}

		sources[i] = Source{Title: title, Similarity: m.Similarity}
	}

	return sources
}

func (a *Assistant) recentHistory(ctx context.Context, conversationID string) []conversations.Exchange {
	if a.conversations == nil || conversationID == "" {
		return nil
	}

	history, err := a.conversations.Recent(ctx, conversationID, historyExchanges)
	if err != nil {
		logger.Warn("failed to load conversation history",
			"error", err,
			"conversation_id", conversationID,
		)

		return nil
	}

	return history
}

func (a *Assistant) record(ctx context.Context, conversationID string, exchange conversations.Exchange) {
	if a.conversations == nil || conversationID == "" {
		return
	}

	if err := a.conversations.Append(ctx, conversationID, exchange); err != nil {
		logger.Warn("failed to record exchange",
			"error", err,
			"conversation_id", conversationID,
		)
	}
}
