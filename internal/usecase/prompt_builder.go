package usecase

import (
	"fmt"
	"strings"

	"blog-publisher/internal/domain"
)

// PromptBuilder constructs the chat messages that steer one day's
// article generation.
type PromptBuilder interface {
	Build(topic domain.TopicConfig) []domain.Message
}

type articlePromptBuilder struct {
	siteName string
}

// NewPromptBuilder creates a prompt builder writing for the given site.
func NewPromptBuilder(siteName string) PromptBuilder {
	return &articlePromptBuilder{siteName: siteName}
}

// Build embeds the day's topic configuration into a system message and
// pins the structural requirements and JSON output shape in the user
// message. Section, paragraph and word targets are requested here but
// never enforced on the response.
func (b *articlePromptBuilder) Build(topic domain.TopicConfig) []domain.Message {
	var sys strings.Builder
	sys.WriteString(fmt.Sprintf("You are an expert crypto education content writer for %s.\n\n", b.siteName))
	sys.WriteString("YOUR WRITING STYLE:\n")
	sys.WriteString("- Clear, accessible, and educational\n")
	sys.WriteString("- Professional but approachable tone\n")
	sys.WriteString("- SEO-optimized with natural keyword integration\n")
	sys.WriteString("- Always risk-aware and honest about the challenges of trading\n")
	sys.WriteString("- Never give specific financial advice or promise returns\n")
	sys.WriteString("- Use concrete examples and practical frameworks\n\n")
	sys.WriteString(fmt.Sprintf("TODAY'S CONTENT THEME: %s\n", topic.Theme))
	sys.WriteString(fmt.Sprintf("CATEGORY: %s\n", topic.Category))
	sys.WriteString(fmt.Sprintf("TARGET SEARCH INTENT: %s\n", topic.SearchIntent))
	sys.WriteString(fmt.Sprintf("CONTENT ROLE: %s\n\n", topic.ContentRole))
	sys.WriteString("THEME GUIDELINES:\n")
	sys.WriteString(topic.Guidelines)
	sys.WriteString("\n\nIMPORTANT: Generate a UNIQUE, ORIGINAL topic that fits within these thematic guidelines.\n")
	sys.WriteString("Do NOT use generic titles. Create something specific and valuable.")

	var user strings.Builder
	user.WriteString("Generate a comprehensive, SEO-optimized blog post for today's theme.\n\n")
	user.WriteString("REQUIREMENTS:\n")
	user.WriteString("1. Create a unique, specific title that fits the theme (not generic)\n")
	user.WriteString("2. Write a compelling meta description (150-160 characters)\n")
	user.WriteString("3. Structure the content with 4-5 detailed sections\n")
	user.WriteString("4. Each section should have 2-4 substantial paragraphs\n")
	user.WriteString("5. Total content should be 1200-1800 words\n")
	user.WriteString("6. Include practical examples, frameworks, or actionable advice\n")
	user.WriteString("7. End with a thoughtful conclusion that reinforces key learnings\n\n")
	user.WriteString("FORMAT YOUR RESPONSE AS JSON:\n")
	user.WriteString("{\n")
	user.WriteString("  \"title\": \"Your unique, SEO-optimized title here\",\n")
	user.WriteString("  \"description\": \"Compelling meta description under 160 characters\",\n")
	user.WriteString("  \"sections\": [\n")
	user.WriteString("    {\n")
	user.WriteString("      \"heading\": \"Section Heading\",\n")
	user.WriteString("      \"content\": \"Full section content with multiple paragraphs separated by \\n\\n\"\n")
	user.WriteString("    }\n")
	user.WriteString("  ]\n")
	user.WriteString("}\n\n")
	user.WriteString("Remember: This content should provide genuine value to someone learning about crypto trading.\n")
	user.WriteString("Be specific, be helpful, be honest about risks.")

	return []domain.Message{
		{Role: "system", Content: sys.String()},
		{Role: "user", Content: user.String()},
	}
}
