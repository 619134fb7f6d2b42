package domain

import (
	"regexp"
	"strings"
)

const maxSlugLen = 60

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphenRun  = regexp.MustCompile(`-+`)
)

// DeriveSlug produces a URL-safe slug from an article title: lowercase,
// strip everything outside [a-z0-9\s-], whitespace runs become a single
// hyphen, hyphen runs collapse, truncate to 60 bytes, trim edge hyphens.
// Deterministic for a given title.
func DeriveSlug(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRun.ReplaceAllString(s, "-")
	if len(s) > maxSlugLen {
		// Only ASCII survives the strip, so byte truncation is safe.
		s = s[:maxSlugLen]
	}
	return strings.Trim(s, "- ")
}
