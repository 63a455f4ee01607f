package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/retriever"
)

func TestProcessMessageBranches(t *testing.T) {
	matches := []retriever.SearchResult{
		{Title: "Chunk 1", Content: "Cloud Migration pricing", Similarity: 0.9},
		{Title: "", Content: "Migration timeline", Similarity: 0.5},
	}

	tests := []struct {
		name           string
		gen            *mockLLM
		kb             *mockKnowledge
		wantConfidence float64
		wantContext    bool
		wantSearch     bool
		check          func(t *testing.T, a *Assistant, res *Result)
	}{
		{
			name:           "greeting",
			gen:            &mockLLM{intent: "greeting", relevant: "relevant"},
			kb:             &mockKnowledge{},
			wantConfidence: 0.95,
			check: func(t *testing.T, a *Assistant, res *Result) {
				assert.Equal(t, a.profile.Greeting, res.Response)
				assert.Equal(t, a.DefaultSuggestions(), res.SuggestedResponses)
				assert.Equal(t, IntentGreeting, res.Intent)
			},
		},
		{
			name:           "farewell",
			gen:            &mockLLM{intent: "farewell", relevant: "irrelevant"},
			kb:             &mockKnowledge{},
			wantConfidence: 0.95,
			check: func(t *testing.T, a *Assistant, res *Result) {
				assert.Equal(t, a.profile.Farewell, res.Response)
				assert.NotNil(t, res.SuggestedResponses)
				assert.Empty(t, res.SuggestedResponses)
			},
		},
		{
			name:           "irrelevant",
			gen:            &mockLLM{intent: "general", relevant: "irrelevant"},
			kb:             &mockKnowledge{results: matches},
			wantConfidence: 0.5,
			check: func(t *testing.T, a *Assistant, res *Result) {
				assert.Equal(t, a.NoInformationResponse("How much is a cloud migration?"), res.Response)
				assert.Equal(t, a.DefaultSuggestions(), res.SuggestedResponses)
			},
		},
		{
			name:           "answer from matches",
			gen:            &mockLLM{intent: "pricing", relevant: "relevant", answer: goodAnswer},
			kb:             &mockKnowledge{results: matches},
			wantConfidence: 0.7,
			wantContext:    true,
			wantSearch:     true,
			check: func(t *testing.T, a *Assistant, res *Result) {
				assert.Equal(t, goodAnswer+signature, res.Response)
				assert.Equal(t, []Source{{Title: "Chunk 1", Similarity: 0.9}, {Title: "Unknown", Similarity: 0.5}}, res.Sources)
				assert.Equal(t, "What's the timeline for cloud migration?", res.SuggestedResponses[0])
				assert.Equal(t, IntentPricing, res.Intent)
			},
		},
		{
			name:           "no matches",
			gen:            &mockLLM{intent: "products", relevant: "relevant", answer: goodAnswer},
			kb:             &mockKnowledge{},
			wantConfidence: 0.6,
			wantSearch:     true,
			check: func(t *testing.T, a *Assistant, res *Result) {
				assert.Equal(t, a.NoInformationResponse("How much is a cloud migration?"), res.Response)
				assert.Empty(t, res.Sources)
			},
		},
		{
			name:           "search failure",
			gen:            &mockLLM{intent: "technical", relevant: "relevant", answer: goodAnswer},
			kb:             &mockKnowledge{err: errors.New("connection reset")},
			wantConfidence: 0.5,
			wantSearch:     true,
			check: func(t *testing.T, a *Assistant, res *Result) {
				assert.Equal(t, a.NoInformationResponse("How much is a cloud migration?"), res.Response)
				assert.Equal(t, a.DefaultSuggestions(), res.SuggestedResponses)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAssistant(tt.gen, tt.kb)

			res, err := a.ProcessMessage(context.Background(), "  How much is a cloud migration?  ", "")
			require.NoError(t, err)

			assert.InDelta(t, tt.wantConfidence, res.Confidence, 1e-9)
			assert.Equal(t, tt.wantContext, res.ContextUsed)
			assert.True(t, res.PDFAvailable)
			assert.NotNil(t, res.Sources)

			if tt.wantSearch {
				assert.Equal(t, 1, tt.kb.searched)
				assert.Equal(t, 3, tt.kb.gotK)
			} else {
				assert.Zero(t, tt.kb.searched)
			}

			tt.check(t, a, res)
		})
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		sims []float64
		want float64
	}{
		{sims: []float64{0.41, 0.45}, want: 0.7},
		{sims: []float64{0.8, 0.9}, want: 0.85},
		{sims: []float64{0.99, 0.97}, want: 0.95},
	}

	for _, tt := range tests {
		matches := make([]retriever.SearchResult, len(tt.sims))
		for i, s := range tt.sims {
			matches[i] = retriever.SearchResult{Similarity: s}
		}

		assert.InDelta(t, tt.want, confidenceFor(matches), 1e-9)
	}
}

func TestProcessMessageRejectsEmpty(t *testing.T) {
	gen := &mockLLM{}
	a := newTestAssistant(gen, &mockKnowledge{})

	_, err := a.ProcessMessage(context.Background(), "   ", "conv")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, gen.requests)
}

func TestProcessMessageCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAssistant(&mockLLM{intent: "general", relevant: "relevant"}, &mockKnowledge{})

	_, err := a.ProcessMessage(ctx, "hello", "conv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessMessageRecordsConversation(t *testing.T) {
	store := conversations.NewMemoryStore(time.Hour, time.Minute)
	defer store.Close() //nolint:errcheck

	gen := &mockLLM{intent: "pricing", relevant: "relevant", answer: goodAnswer}
	kb := &mockKnowledge{results: []retriever.SearchResult{{Title: "Chunk 1", Content: "prices", Similarity: 0.8}}}
	a := newTestAssistant(gen, kb, WithConversations(store), WithTopK(5))

	_, err := a.ProcessMessage(context.Background(), "What does cloud migration cost?", "conv-1")
	require.NoError(t, err)

	_, err = a.ProcessMessage(context.Background(), "And for data analytics?", "conv-1")
	require.NoError(t, err)

	assert.Equal(t, 5, kb.gotK)

	history, err := store.Recent(context.Background(), "conv-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "What does cloud migration cost?", history[0].UserMessage)
	assert.Equal(t, "pricing", history[0].Intent)
	assert.Equal(t, goodAnswer+signature, history[0].BotResponse)

	answers := gen.answerRequests()
	require.Len(t, answers, 2)
	assert.True(t, strings.HasPrefix(answers[0].Messages[0].Content, "CUSTOMER QUESTION: You are TechCorp Solutions' AI assistant."))
	assert.True(t, strings.HasPrefix(answers[1].Messages[0].Content, "CONVERSATION CONTEXT:\nCustomer: What does cloud migration cost?\n"))
	assert.Contains(t, answers[1].Messages[0].Content, "\nCUSTOMER QUESTION: You are TechCorp Solutions' AI assistant.")
}
