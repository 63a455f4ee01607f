package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// describes the company the assistant speaks for
type CompanyProfile struct {
	Name         string   `yaml:"name"`
	SalesEmail   string   `yaml:"sales_email"`
	SupportEmail string   `yaml:"support_email"`
	Phone        string   `yaml:"phone"`
	SupportPhone string   `yaml:"support_phone"`
	ResponseTime string   `yaml:"response_time"`
	Services     []string `yaml:"services"`

	// static replies used by the chat pipeline for greetings and farewells
	Greeting string `yaml:"greeting"`
	Farewell string `yaml:"farewell"`

	// ask the LLM for greeting/farewell texts instead of the static ones
	GeneratedGreetings bool `yaml:"generated_greetings"`

	DefaultSuggestions []string `yaml:"default_suggestions"`
	Topics             []Topic  `yaml:"topics"`
}

// maps query keywords to follow-up suggestions
type Topic struct {
	Keywords    []string `yaml:"keywords"`
	Suggestions []string `yaml:"suggestions"`
}

// returns the display name used in signatures
func (p *CompanyProfile) ServiceDesk() string {
	return p.Name + " Customer Service"
}

// returns the closing appended to every answer
func (p *CompanyProfile) Signature() string {
	return "Best regards,\n" + p.ServiceDesk()
}

// returns the built-in TechCorp Solutions profile
func DefaultCompanyProfile() *CompanyProfile {
	return &CompanyProfile{
		Name:         "TechCorp Solutions",
		SalesEmail:   "sales@techcorp.com",
		SupportEmail: "support@techcorpsolutions.com",
		Phone:        "+1 (555) 123-4568",
		SupportPhone: "1-800-TECHCORP",
		ResponseTime: "2 business hours",
		Services: []string{
			"Cloud Migration (AWS, Azure, GCP)",
			"AI/ML Solutions (custom models, applications)",
			"Cybersecurity (audits, monitoring, compliance)",
			"Web Development (custom applications, e-commerce)",
			"Mobile App Development (iOS, Android, cross-platform)",
			"Data Analytics (BI, dashboards, reporting)",
			"Technical Support (24/7 monitoring, incident response)",
		},
		Greeting: "Hello! I'm your dedicated customer service assistant. I'm here to help you with " +
			"information about our services, pricing, technical support, and any other questions you may have. " +
			"How can I assist you today?",
		Farewell: "Thank you for contacting us! I hope I was able to help you today. If you have any further " +
			"questions or need assistance in the future, please don't hesitate to reach out. Have a great day!",
		DefaultSuggestions: []string{
			"Tell me about your tech services",
			"What are your pricing plans?",
			"I need technical support",
			"How can I contact you?",
		},
		Topics: []Topic{
			{
				Keywords: []string{"cloud", "migration"},
				Suggestions: []string{
					"What's the timeline for cloud migration?",
					"Do you support hybrid cloud solutions?",
					"What's included in the migration process?",
				},
			},
			{
				Keywords: []string{"ai", "machine learning", "ml"},
				Suggestions: []string{
					"What types of AI solutions do you offer?",
					"How long does AI development take?",
					"Do you provide AI consulting?",
				},
			},
			{
				Keywords: []string{"security", "cybersecurity"},
				Suggestions: []string{
					"What security certifications do you have?",
					"Do you offer 24/7 security monitoring?",
					"What's your incident response time?",
				},
			},
			{
				Keywords: []string{"web", "website", "application"},
				Suggestions: []string{
					"What technologies do you use for web development?",
					"Do you provide ongoing maintenance?",
					"Can you help with e-commerce platforms?",
				},
			},
			{
				Keywords: []string{"mobile", "app"},
				Suggestions: []string{
					"Do you develop for both iOS and Android?",
					"What's the cost of mobile app development?",
					"Do you provide app maintenance services?",
				},
			},
			{
				Keywords: []string{"data", "analytics"},
				Suggestions: []string{
					"What BI tools do you work with?",
					"Can you help with data strategy?",
					"Do you provide custom dashboards?",
				},
			},
			{
				Keywords: []string{"price", "cost", "pricing"},
				Suggestions: []string{
					"What's included in your pricing?",
					"Do you offer custom pricing?",
					"What are your payment terms?",
				},
			},
			{
				Keywords: []string{"support", "help"},
				Suggestions: []string{
					"What are your support response times?",
					"Do you offer 24/7 support?",
					"How can I contact technical support?",
				},
			},
		},
	}
}

// loads a YAML profile over the defaults; an empty path returns the defaults
func LoadCompanyProfile(path string) (*CompanyProfile, error) {
	profile := DefaultCompanyProfile()

	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read company profile: %w", err)
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse company profile %s: %w", path, err)
	}

	if strings.TrimSpace(profile.Name) == "" {
		return nil, fmt.Errorf("company profile %s: name is required", path)
	}

	if len(profile.DefaultSuggestions) == 0 {
		profile.DefaultSuggestions = DefaultCompanyProfile().DefaultSuggestions
	}

	return profile, nil
}
