package assistant

import (
	"fmt"
	"strings"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/conversations"
)

// assembles the formatting guide sent as the system message of every answer
func buildSystemPrompt(profile *config.CompanyProfile) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "You are %s' professional AI assistant. Provide direct, accurate answers to customer inquiries.\n\n", profile.Name)

	builder.WriteString("RESPONSE FORMATTING GUIDELINES:\n")
	builder.WriteString("- Use **bold** for key terms, service names, and important information\n")
	builder.WriteString("- Structure responses with clear sections using bullet points (•) and numbered lists\n")
	builder.WriteString("- Use headings with **bold** formatting for different sections\n")
	builder.WriteString("- Keep responses concise but well-structured (max 150 words)\n")
	builder.WriteString("- Use professional formatting with proper spacing\n\n")

	builder.WriteString("RESPONSE STRUCTURE:\n")
	builder.WriteString("• **Direct Answer**: Start with a clear, specific answer to the question\n")
	builder.WriteString("• **Key Details**: Use bullet points for features, benefits, or specifications\n")
	builder.WriteString("• **Pricing/Information**: Bold important numbers and terms\n")
	builder.WriteString("• **Next Steps**: If applicable, provide clear action items\n\n")

	builder.WriteString("SERVICES (use these exact names with **bold** formatting):\n")
	for _, service := range profile.Services {
		builder.WriteString("• ")
		builder.WriteString(boldServiceName(service))
		builder.WriteString("\n")
	}

	builder.WriteString("\nFORMATTING EXAMPLES:\n")
	builder.WriteString("- Use **bold** for: **Cloud Migration**, **$2,500/month**, **24/7 support**\n")
	builder.WriteString("- Use bullets for: • Custom solutions • 24/7 monitoring • Expert team\n")
	builder.WriteString("- Use sections like: **Service Overview:** or **Key Features:**\n\n")

	builder.WriteString("Remember: Be specific, professional, and well-formatted. Focus on what the customer asked for. ")
	builder.WriteString("DO NOT include any signature or closing - the system will add it automatically.")

	return builder.String()
}

// "Cloud Migration (AWS, Azure, GCP)" becomes "**Cloud Migration** (AWS, Azure, GCP)"
func boldServiceName(service string) string {
	name, detail, found := strings.Cut(service, " (")
	if !found {
		return "**" + service + "**"
	}

	return "**" + name + "** (" + detail
}

// short service names for the no-context fallback, e.g. "Cloud Migration, AI/ML Solutions"
func serviceNames(profile *config.CompanyProfile, n int) string {
	names := make([]string, 0, n)

	for _, service := range profile.Services {
		if len(names) == n {
			break
		}

		name, _, _ := strings.Cut(service, " (")
		names = append(names, name)
	}

	return strings.Join(names, ", ")
}

// builds the user message: company information, recent exchanges, the question and formatting rules
func buildPrompt(query, info string, history []conversations.Exchange) string {
	parts := make([]string, 0, 16)

	if info != "" {
		parts = append(parts, "RELEVANT COMPANY INFORMATION:\n"+info+"\n")
	}

	if len(history) > 0 {
		if len(history) > historyExchanges {
			history = history[len(history)-historyExchanges:]
		}

		parts = append(parts, "CONVERSATION CONTEXT:")

		for _, ex := range history {
			if ex.UserMessage != "" {
				parts = append(parts, "Customer: "+ex.UserMessage)
			}

			if ex.BotResponse != "" {
				parts = append(parts, "Assistant: "+ex.BotResponse)
			}
		}

		parts = append(parts, "")
	}

	parts = append(parts,
		"CUSTOMER QUESTION: "+query,
		"\nINSTRUCTIONS: Provide a specific, professional answer with proper formatting:",
		"• Use **bold** for key terms, service names, and important information",
		"• Structure with bullet points (•) and clear sections",
		"• Use headings like **Service Overview:** or **Key Features:**",
		"• If asking about pricing, give exact prices in **bold**",
		"• If asking about services, focus on that service only with structured details",
		"• Be precise, actionable, and well-formatted",
		"• DO NOT include any signature or closing - the system will add it automatically",
		"• Never use placeholder text like [Your Name]",
		"• Focus on the content only, no greetings or closings",
	)

	return strings.Join(parts, "\n")
}

// the question-answering prompt wrapped around retrieved chunks
func buildRAGPrompt(companyName, query, info string) string {
	return fmt.Sprintf(`You are %s' AI assistant. Provide a direct, professional answer based on the context.

Context: %s

User Question: %s

Instructions:
- Answer the specific question asked (max 120 words)
- Use only information from the provided context
- If context doesn't contain the answer, say "I don't have specific information about that in our knowledge base"
- Be professional, clear, and actionable
- Focus on providing value, not general information
- NEVER start with a signature or greeting
- Start directly with the answer to the question

Response:`, companyName, info, query)
}

const (
	intentSystemPrompt = "You are an intent classifier for %s. Classify the user's query into one of these categories: " +
		"greeting, farewell, pricing, products, support, technical, general, irrelevant. Respond with only the category name."

	relevanceSystemPrompt = "You are a relevance checker for %s. %s offers cloud services, AI/ML solutions, " +
		"digital transformation, cybersecurity, data analytics, mobile app development, and web development. " +
		"Respond with only 'relevant' or 'irrelevant' based on whether the query is related to these services or general business inquiries."

	greetingInstruction = "Generate a brief, professional greeting for a customer service chatbot with proper formatting using bold and bullet points."
	farewellInstruction = "Generate a brief, professional farewell message for a customer service chatbot with proper formatting using bold and bullet points."
)

// first word of the company name, e.g. "TechCorp"
func shortName(name string) string {
	first, _, _ := strings.Cut(name, " ")
	return first
}
