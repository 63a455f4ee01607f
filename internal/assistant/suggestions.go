package assistant

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}]+`)

// keywords shorter than this must match a whole word ("ai" is not in "said")
const minSubstringKeyword = 3

// follow-up suggestions for the first topic whose keywords occur in the query
func (a *Assistant) SuggestedResponses(query string) []string {
	lower := strings.ToLower(query)
	words := normalizeWords(query)

	for _, topic := range a.profile.Topics {
		for _, keyword := range topic.Keywords {
			if matchesKeyword(lower, words, keyword) {
				return append([]string(nil), topic.Suggestions...)
			}
		}
	}

	return a.DefaultSuggestions()
}

func matchesKeyword(lower, words, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}

	if utf8.RuneCountInString(keyword) < minSubstringKeyword {
		return strings.Contains(words, normalizeWords(keyword))
	}

	return strings.Contains(lower, keyword)
}

func (a *Assistant) DefaultSuggestions() []string {
	return append([]string(nil), a.profile.DefaultSuggestions...)
}

// lowercases text into space-separated words padded with a space on both sides
func normalizeWords(text string) string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	return " " + strings.Join(words, " ") + " "
}
