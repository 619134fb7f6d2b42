package domain

import "strings"

// BlogSection is one heading + body block of a post. The body encodes
// paragraph breaks as a literal double newline.
type BlogSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Paragraphs splits the section body on the double-newline convention,
// dropping empty fragments.
func (s BlogSection) Paragraphs() []string {
	parts := strings.Split(s.Content, "\n\n")
	paras := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// GeneratedContent is the raw article shape returned by the LLM. It is
// validated only as far as "parses and has a title and sections".
type GeneratedContent struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Sections    []BlogSection `json:"sections"`
}

// WordCount counts whitespace-separated words across all sections.
func (c GeneratedContent) WordCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(strings.Fields(s.Content))
	}
	return n
}

// BlogPost is the persisted post record. The post index is a JSON array
// of these, newest first. Records are never mutated after publication.
type BlogPost struct {
	Slug          string        `json:"slug"`
	Category      string        `json:"category"`
	CategoryColor string        `json:"categoryColor"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ImagePath     string        `json:"imagePath"`
	Sections      []BlogSection `json:"sections"`
	PublishDate   string        `json:"publishDate"`
	Generated     bool          `json:"generated"`
}

// ImagePathForSlug returns the conventional hero-image path for a slug.
// The asset itself is not required to exist.
func ImagePathForSlug(slug string) string {
	return "/blog/" + slug + ".webp"
}
