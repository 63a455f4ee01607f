package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/conversations"
	"codeberg.org/techcorp/supportbot/internal/llm"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"codeberg.org/techcorp/supportbot/internal/retriever"
)

// minimum length of a cleaned completion and of a RAG answer
const (
	minCleanLength  = 20
	minAnswerLength = 30
	fallbackExcerpt = 150
)

var (
	placeholderRegex = regexp.MustCompile(`(?i)\[(Your Name|Agent Name|Customer Service Representative|Representative Name|Name|Agent|CSR)\]`)

	leadingSignatureRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)^.*?Best regards,.*?\n.*?\n`),
		regexp.MustCompile(`(?is)^.*?Sincerely,.*?\n.*?\n`),
		regexp.MustCompile(`(?is)^.*?Thank you,.*?\n.*?\n`),
	}

	headerOnlyRegex = regexp.MustCompile(`^(\*\*|#{1,6}) ?[\p{L}\p{N}_\s\-:]+(\*\*)?:?$`)
	boldOnlyRegex   = regexp.MustCompile(`^\*\*.*\*\*:?$`)
)

// normalizes completions: placeholders, signatures, degenerate replies
type cleaner struct {
	profile            *config.CompanyProfile
	trailingSignatures []*regexp.Regexp
	hasSignature       *regexp.Regexp
}

func newCleaner(profile *config.CompanyProfile) *cleaner {
	name := regexp.QuoteMeta(profile.Name)

	trailing := []string{
		`Best regards,`,
		`Sincerely,`,
		`Thank you,`,
		`Regards,`,
		name,
		`Customer Service`,
		`AI Assistant`,
	}

	c := &cleaner{
		profile:      profile,
		hasSignature: regexp.MustCompile(`(?is)best regards.*` + regexp.QuoteMeta(shortName(profile.Name)) + `.*service`),
	}

	for _, prefix := range trailing {
		c.trailingSignatures = append(c.trailingSignatures, regexp.MustCompile(`(?is)\n\s*`+prefix+`.*$`))
	}

	return c
}

func (c *cleaner) clean(text string) string {
	if text == "" {
		return c.fallback("")
	}

	cleaned := placeholderRegex.ReplaceAllString(text, c.profile.ServiceDesk())

	for _, re := range leadingSignatureRegexes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	for _, re := range c.trailingSignatures {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	cleaned = strings.TrimSpace(cleaned)

	lower := strings.ToLower(cleaned)
	if utf8.RuneCountInString(cleaned) < minCleanLength || lower == "dear customer" || lower == "dear valued customer" || headerOnlyRegex.MatchString(cleaned) {
		return c.fallback("")
	}

	if !c.hasSignature.MatchString(cleaned) {
		cleaned += "\n\n" + c.profile.Signature()
	}

	return cleaned
}

func (c *cleaner) fallback(info string) string {
	p := c.profile

	var base string

	if info != "" {
		excerpt := info
		if runes := []rune(excerpt); len(runes) > fallbackExcerpt {
			excerpt = string(runes[:fallbackExcerpt])
		}

		base = fmt.Sprintf(`**Service Information Available**

I have some information about this topic, but I need to verify the specific details. Based on our documentation:

• %s...

**For Accurate Information:**
• **Contact:** %s
• **Phone:** **%s**
• **Response Time:** Within **%s**`, excerpt, p.SalesEmail, p.Phone, p.ResponseTime)
	} else {
		base = fmt.Sprintf(`**Information Request**

I apologize, but I don't have specific information about that topic in my knowledge base.

**Available Support:**
• **Services:** %s
• **Contact:** %s
• **Phone:** **%s**
• **Response Time:** Within **%s**`, serviceNames(p, 4), p.SalesEmail, p.Phone, p.ResponseTime)
	}

	return base + "\n\n" + p.Signature()
}

// strips placeholders and stray signatures, rejects degenerate replies and appends the signature
func (a *Assistant) Clean(text string) string {
	return a.cleaner.clean(text)
}

// the canned reply used when generation fails, quoting context when there is some
func (a *Assistant) FallbackResponse(info string) string {
	return a.cleaner.fallback(info)
}

// the reply used when the knowledge base has nothing on the query
func (a *Assistant) NoInformationResponse(query string) string {
	p := a.profile

	return fmt.Sprintf("I don't have specific information about \"%s\" in our knowledge base. \n\n"+
		"For detailed assistance, please contact our support team at %s or call %s.\n\n%s",
		query, p.SupportEmail, p.SupportPhone, p.Signature())
}

// asks the LLM for an answer with the company system prompt and cleans it
func (a *Assistant) GenerateResponse(ctx context.Context, query, info string, history []conversations.Exchange) string {
	resp, err := a.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: a.systemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(query, info, history)},
		},
		Temperature: 0.3,
		TopP:        0.9,
		MaxTokens:   800,
	})
	if err != nil {
		logger.Error("response generation failed",
			"error", err,
			"model", a.generator.Model(),
		)

		return a.FallbackResponse(info)
	}

	return a.Clean(resp.Text)
}

// answers from the top retrieved chunks; short or header-only answers become the no-information reply
func (a *Assistant) GenerateRAGAnswer(ctx context.Context, query string, matches []retriever.SearchResult, history []conversations.Exchange) string {
	if len(matches) == 0 {
		return a.NoInformationResponse(query)
	}

	if len(matches) > contextChunks {
		matches = matches[:contextChunks]
	}

	contents := make([]string, len(matches))
	for i, m := range matches {
		contents[i] = m.Content
	}

	prompt := buildRAGPrompt(a.profile.Name, query, strings.Join(contents, "\n\n"))
	answer := strings.TrimSpace(a.GenerateResponse(ctx, prompt, "", history))

	if length := utf8.RuneCountInString(answer); length < minAnswerLength || boldOnlyRegex.MatchString(answer) {
		logger.Warn("generated answer too short or header-like", "length", length)
		return a.NoInformationResponse(query)
	}

	return answer
}

// the greeting reply; static unless generated greetings are enabled
func (a *Assistant) Greeting(ctx context.Context) string {
	if !a.profile.GeneratedGreetings {
		return a.profile.Greeting
	}

	return a.generateSmallTalk(ctx, greetingInstruction, a.staticGreeting())
}

// the farewell reply; static unless generated greetings are enabled
func (a *Assistant) Farewell(ctx context.Context) string {
	if !a.profile.GeneratedGreetings {
		return a.profile.Farewell
	}

	return a.generateSmallTalk(ctx, farewellInstruction, a.staticFarewell())
}

func (a *Assistant) generateSmallTalk(ctx context.Context, instruction, fallback string) string {
	resp, err := a.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: a.systemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: instruction},
		},
		Temperature: 0.5,
		MaxTokens:   150,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		if err != nil {
			logger.Warn("small talk generation failed", "error", err)
		}

		return fallback
	}

	return a.Clean(resp.Text)
}

func (a *Assistant) staticGreeting() string {
	p := a.profile

	return fmt.Sprintf(`**Welcome to %s!**

Hello! I'm your **AI assistant** here to help with:

• **Service Information** - %s
• **Pricing Details** - Custom quotes and package options
• **Technical Support** - 24/7 monitoring and incident response
• **Project Consultation** - Expert guidance for your business needs

How can I assist you today?

%s`, p.Name, serviceNames(p, 3), p.Signature())
}

func (a *Assistant) staticFarewell() string {
	p := a.profile

	return fmt.Sprintf(`**Thank You for Contacting %s!**

We appreciate your interest in our services. For further assistance:

• **Sales Inquiries:** %s
• **Technical Support:** %s
• **Phone:** **%s**
• **Response Time:** Within **%s**

Have a great day!

%s`, p.Name, p.SalesEmail, p.SupportEmail, p.Phone, p.ResponseTime, p.Signature())
}
