package assistant

import (
	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/llm"
)

type Option func(*Assistant)

// records exchanges and feeds recent ones back into prompts
func WithConversations(store conversations.Store) Option {
	return func(a *Assistant) {
		a.conversations = store
	}
}

// sets how many chunks are retrieved per question
func WithTopK(k int) Option {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

func New(generator llm.TextGenerator, kb KnowledgeBase, profile *config.CompanyProfile, opts ...Option) *Assistant {
	if profile == nil {
		profile = config.DefaultCompanyProfile()
	}

	a := &Assistant{
		generator:    generator,
		knowledge:    kb,
		profile:      profile,
		systemPrompt: buildSystemPrompt(profile),
		cleaner:      newCleaner(profile),
		topK:         contextChunks,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Assistant) Profile() *config.CompanyProfile {
	return a.profile
}
