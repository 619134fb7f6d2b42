package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"blog-publisher/internal/domain"
)

// Prompted targets. Shortfalls are logged, never rejected.
const (
	targetMinSections   = 4
	targetMinParagraphs = 2
	targetMinWords      = 1200
	descriptionLimit    = 160
)

// parseGeneratedContent decodes the LLM text payload into
// GeneratedContent. The payload is requested as a JSON object, but
// models occasionally wrap it in a markdown code fence, so fences are
// stripped before decoding. A payload without a title or without
// sections is rejected.
func parseGeneratedContent(text string) (*domain.GeneratedContent, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, domain.ErrEmptyCompletion
	}

	var content domain.GeneratedContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return nil, fmt.Errorf("completion is not the expected JSON shape: %w", err)
	}
	if strings.TrimSpace(content.Title) == "" {
		return nil, fmt.Errorf("completion has no title")
	}
	if len(content.Sections) == 0 {
		return nil, fmt.Errorf("completion has no sections")
	}
	return &content, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// warnContentShortfalls logs when the model under-delivered on the
// prompted structural targets. The content is still published as-is.
func warnContentShortfalls(logger *slog.Logger, content *domain.GeneratedContent) {
	if len(content.Sections) < targetMinSections {
		logger.Warn("generated content has fewer sections than requested",
			slog.Int("sections", len(content.Sections)),
			slog.Int("target", targetMinSections))
	}
	for _, section := range content.Sections {
		if n := len(section.Paragraphs()); n < targetMinParagraphs {
			logger.Warn("generated section has fewer paragraphs than requested",
				slog.String("heading", section.Heading),
				slog.Int("paragraphs", n))
		}
	}
	if words := content.WordCount(); words < targetMinWords {
		logger.Warn("generated content is shorter than requested",
			slog.Int("words", words),
			slog.Int("target", targetMinWords))
	}
	if len(content.Description) > descriptionLimit {
		logger.Warn("meta description exceeds the requested limit",
			slog.Int("length", len(content.Description)))
	}
}
