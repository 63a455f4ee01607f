package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/techcorp/supportbot/internal/retriever"
)

const signature = "\n\nBest regards,\nTechCorp Solutions Customer Service"

func TestClean(t *testing.T) {
	a := newTestAssistant(&mockLLM{}, &mockKnowledge{})
	fallback := a.FallbackResponse("")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "appends signature",
			input: goodAnswer,
			want:  goodAnswer + signature,
		},
		{
			name:  "replaces placeholders",
			input: "Your account manager [your name] will reach out within a day.",
			want:  "Your account manager TechCorp Solutions Customer Service will reach out within a day." + signature,
		},
		{
			name:  "strips trailing signature",
			input: goodAnswer + "\n\nBest regards,\n[Agent Name]",
			want:  goodAnswer + signature,
		},
		{
			name:  "strips trailing company block",
			input: goodAnswer + "\nTechCorp Solutions\nSupport Team",
			want:  goodAnswer + signature,
		},
		{
			name:  "strips leading signature",
			input: "Best regards,\nJohn\n" + goodAnswer,
			want:  goodAnswer + signature,
		},
		{name: "empty", input: "", want: fallback},
		{name: "too short", input: "Sure thing!", want: fallback},
		{name: "too short counted in characters", input: "こんにちは、元気です", want: fallback},
		{
			name:  "non-ascii long enough",
			input: "クラウド移行サービスについてご案内いたします。",
			want:  "クラウド移行サービスについてご案内いたします。" + signature,
		},
		{name: "salutation only", input: "Dear valued customer", want: fallback},
		{name: "bold header only", input: "**Service Overview:**", want: fallback},
		{name: "markdown header only", input: "## Key Features of our plans", want: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Clean(tt.input))
		})
	}
}

func TestFallbackResponse(t *testing.T) {
	a := newTestAssistant(&mockLLM{}, &mockKnowledge{})

	t.Run("without context", func(t *testing.T) {
		got := a.FallbackResponse("")

		assert.True(t, strings.HasPrefix(got, "**Information Request**\n\n"))
		assert.Contains(t, got, "• **Services:** Cloud Migration, AI/ML Solutions, Cybersecurity, Web Development\n")
		assert.Contains(t, got, "• **Phone:** **+1 (555) 123-4568**\n")
		assert.True(t, strings.HasSuffix(got, "• **Response Time:** Within **2 business hours**"+signature))
	})

	t.Run("with context", func(t *testing.T) {
		info := strings.Repeat("x", 200)
		got := a.FallbackResponse(info)

		assert.True(t, strings.HasPrefix(got, "**Service Information Available**\n\n"))
		assert.Contains(t, got, "• "+strings.Repeat("x", 150)+"...\n")
		assert.NotContains(t, got, strings.Repeat("x", 151))
		assert.Contains(t, got, "• **Contact:** sales@techcorp.com\n")
	})
}

func TestNoInformationResponse(t *testing.T) {
	a := newTestAssistant(&mockLLM{}, &mockKnowledge{})

	want := "I don't have specific information about \"quantum teleportation\" in our knowledge base. \n\n" +
		"For detailed assistance, please contact our support team at support@techcorpsolutions.com or call 1-800-TECHCORP." +
		signature

	assert.Equal(t, want, a.NoInformationResponse("quantum teleportation"))
}

func TestGenerateResponse(t *testing.T) {
	t.Run("request shape", func(t *testing.T) {
		gen := &mockLLM{answer: goodAnswer}
		a := newTestAssistant(gen, &mockKnowledge{})

		got := a.GenerateResponse(context.Background(), "How much is cloud migration?", "Cloud Migration: $2,500/month", nil)
		assert.Equal(t, goodAnswer+signature, got)

		require.Len(t, gen.requests, 1)
		req := gen.requests[0]
		assert.Equal(t, a.systemPrompt, req.SystemPrompt)
		assert.InDelta(t, 0.3, req.Temperature, 1e-6)
		assert.InDelta(t, 0.9, req.TopP, 1e-6)
		assert.Equal(t, 800, req.MaxTokens)
		assert.Contains(t, req.Messages[0].Content, "RELEVANT COMPANY INFORMATION:\nCloud Migration: $2,500/month\n")
	})

	t.Run("failure falls back with context", func(t *testing.T) {
		a := newTestAssistant(&mockLLM{err: errors.New("503")}, &mockKnowledge{})

		got := a.GenerateResponse(context.Background(), "q", "Cloud Migration details", nil)
		assert.Equal(t, a.FallbackResponse("Cloud Migration details"), got)
	})
}

func TestGenerateRAGAnswer(t *testing.T) {
	matches := []retriever.SearchResult{
		{Title: "Chunk 1", Content: "first chunk", Similarity: 0.9},
		{Title: "Chunk 2", Content: "second chunk", Similarity: 0.8},
		{Title: "Chunk 3", Content: "third chunk", Similarity: 0.7},
		{Title: "Chunk 4", Content: "fourth chunk", Similarity: 0.6},
	}

	t.Run("uses top three chunks", func(t *testing.T) {
		gen := &mockLLM{answer: goodAnswer}
		a := newTestAssistant(gen, &mockKnowledge{})

		got := a.GenerateRAGAnswer(context.Background(), "pricing?", matches, nil)
		assert.Equal(t, goodAnswer+signature, got)

		require.Len(t, gen.requests, 1)
		prompt := gen.requests[0].Messages[0].Content
		assert.Contains(t, prompt, "Context: first chunk\n\nsecond chunk\n\nthird chunk\n\nUser Question: pricing?")
		assert.NotContains(t, prompt, "fourth chunk")
		assert.Contains(t, prompt, "You are TechCorp Solutions' AI assistant.")
	})

	t.Run("no matches", func(t *testing.T) {
		gen := &mockLLM{answer: goodAnswer}
		a := newTestAssistant(gen, &mockKnowledge{})

		assert.Equal(t, a.NoInformationResponse("pricing?"), a.GenerateRAGAnswer(context.Background(), "pricing?", nil, nil))
		assert.Empty(t, gen.requests)
	})

	t.Run("generation failure", func(t *testing.T) {
		a := newTestAssistant(&mockLLM{err: errors.New("down")}, &mockKnowledge{})

		assert.Equal(t, a.FallbackResponse(""), a.GenerateRAGAnswer(context.Background(), "pricing?", matches, nil))
	})
}

func TestGreetingAndFarewell(t *testing.T) {
	t.Run("static by default", func(t *testing.T) {
		gen := &mockLLM{answer: goodAnswer}
		a := newTestAssistant(gen, &mockKnowledge{})

		assert.Equal(t, a.profile.Greeting, a.Greeting(context.Background()))
		assert.Equal(t, a.profile.Farewell, a.Farewell(context.Background()))
		assert.Empty(t, gen.requests)
	})

	t.Run("generated with fallback", func(t *testing.T) {
		gen := &mockLLM{err: errors.New("down")}
		a := newTestAssistant(gen, &mockKnowledge{})
		a.profile.GeneratedGreetings = true

		greeting := a.Greeting(context.Background())
		assert.True(t, strings.HasPrefix(greeting, "**Welcome to TechCorp Solutions!**"))
		assert.Contains(t, greeting, "• **Service Information** - Cloud Migration, AI/ML Solutions, Cybersecurity\n")

		farewell := a.Farewell(context.Background())
		assert.True(t, strings.HasPrefix(farewell, "**Thank You for Contacting TechCorp Solutions!**"))
		assert.True(t, strings.HasSuffix(farewell, signature))

		require.Len(t, gen.requests, 2)
		assert.InDelta(t, 0.5, gen.requests[0].Temperature, 1e-6)
		assert.Equal(t, 150, gen.requests[0].MaxTokens)
	})

	t.Run("generated", func(t *testing.T) {
		gen := &mockLLM{answer: "**Welcome!** How can we help with your project today?"}
		a := newTestAssistant(gen, &mockKnowledge{})
		a.profile.GeneratedGreetings = true

		assert.Equal(t, "**Welcome!** How can we help with your project today?"+signature, a.Greeting(context.Background()))
	})
}
