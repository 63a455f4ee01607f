package assistant

import (
	"context"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/document"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/retriever"
)

type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentFarewell   Intent = "farewell"
	IntentPricing    Intent = "pricing"
	IntentProducts   Intent = "products"
	IntentSupport    Intent = "support"
	IntentTechnical  Intent = "technical"
	IntentGeneral    Intent = "general"
	IntentIrrelevant Intent = "irrelevant"
)

var validIntents = map[Intent]struct{}{
	IntentGreeting:   {},
	IntentFarewell:   {},
	IntentPricing:    {},
	IntentProducts:   {},
	IntentSupport:    {},
	IntentTechnical:  {},
	IntentGeneral:    {},
	IntentIrrelevant: {},
}

// confidence reported for each pipeline branch
const (
	confidenceSmallTalk  = 0.95
	confidenceIrrelevant = 0.5
	confidenceNoMatches  = 0.6
	confidenceError      = 0.5
	confidenceFloor      = 0.7
	confidenceCeiling    = 0.95
)

// how many retrieved chunks feed an answer
const contextChunks = 3

// exchanges of history included in the prompt
const historyExchanges = 2

// interface for knowledge-base search and document availability
type KnowledgeBase interface {
	Search(ctx context.Context, query string, k int) ([]retriever.SearchResult, error)
	PDFInfo() document.Info
}

// answers customer messages from the knowledge base
type Assistant struct {
	generator     llm.TextGenerator
	knowledge     KnowledgeBase
	conversations conversations.Store // optional
	profile       *config.CompanyProfile
	systemPrompt  string
	cleaner       *cleaner
	topK          int
}

// a retrieved chunk cited by an answer
type Source struct {
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// the outcome of processing one customer message
type Result struct {
	Response           string   `json:"response"`
	Confidence         float64  `json:"confidence"`
	ContextUsed        bool     `json:"context_used"`
	Sources            []Source `json:"sources"`
	SuggestedResponses []string `json:"suggested_responses"`
	PDFAvailable       bool     `json:"pdf_available"`
	Intent             Intent   `json:"intent"`
}
