package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-publisher/internal/domain"
)

func TestParseGeneratedContent(t *testing.T) {
	payload := `{
		"title": "Understanding Stop Losses",
		"description": "How stop losses protect trading capital.",
		"sections": [
			{"heading": "Why Stops Matter", "content": "Stops cap downside.\n\nThey remove emotion."}
		]
	}`

	content, err := parseGeneratedContent(payload)
	require.NoError(t, err)
	assert.Equal(t, "Understanding Stop Losses", content.Title)
	require.Len(t, content.Sections, 1)
	assert.Equal(t, "Why Stops Matter", content.Sections[0].Heading)
}

func TestParseGeneratedContent_CodeFence(t *testing.T) {
	fenced := "```json\n{\"title\": \"Fenced Title\", \"description\": \"d\", \"sections\": [{\"heading\": \"H\", \"content\": \"C\"}]}\n```"

	content, err := parseGeneratedContent(fenced)
	require.NoError(t, err)
	assert.Equal(t, "Fenced Title", content.Title)

	bare := "```\n{\"title\": \"Bare Fence\", \"sections\": [{\"heading\": \"H\", \"content\": \"C\"}]}\n```"
	content, err = parseGeneratedContent(bare)
	require.NoError(t, err)
	assert.Equal(t, "Bare Fence", content.Title)
}

func TestParseGeneratedContent_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n  "},
		{"not json", "Here is your article about stop losses."},
		{"missing title", `{"description": "d", "sections": [{"heading": "H", "content": "C"}]}`},
		{"blank title", `{"title": "   ", "sections": [{"heading": "H", "content": "C"}]}`},
		{"no sections", `{"title": "T", "description": "d", "sections": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGeneratedContent(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestParseGeneratedContent_EmptyIsSentinel(t *testing.T) {
	_, err := parseGeneratedContent("")
	assert.ErrorIs(t, err, domain.ErrEmptyCompletion)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
