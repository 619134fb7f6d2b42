package domain_test

import (
	"regexp"
	"strings"
	"testing"

	"blog-publisher/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "punctuation stripped",
			title: "What Is Crypto Trading?? 101!!",
			want:  "what-is-crypto-trading-101",
		},
		{
			name:  "whitespace runs collapse",
			title: "Stop   Loss \t Placement",
			want:  "stop-loss-placement",
		},
		{
			name:  "existing hyphens collapse",
			title: "Dollar-Cost--Averaging",
			want:  "dollar-cost-averaging",
		},
		{
			name:  "leading and trailing noise trimmed",
			title: "  -- Trading Glossary -- ",
			want:  "trading-glossary",
		},
		{
			name:  "unicode outside the allowed set is dropped",
			title: "Bull vs Bear Märkets — Explained",
			want:  "bull-vs-bear-mrkets-explained",
		},
		{
			name:  "empty title yields empty slug",
			title: "!!!",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveSlug(tt.title))
		})
	}
}

func TestDeriveSlug_Deterministic(t *testing.T) {
	title := "Why Most Traders Lose Money (And How Not To)"
	first := domain.DeriveSlug(title)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, domain.DeriveSlug(title))
	}
}

func TestDeriveSlug_OutputAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	titles := []string{
		"VWAP Strategy Explained",
		"RSI Divergence: A Complete Guide!",
		"10,000 Hours? The Myth of Mastery",
		strings.Repeat("Compounding Gains Over Time ", 10),
	}
	for _, title := range titles {
		slug := domain.DeriveSlug(title)
		assert.True(t, valid.MatchString(slug), "slug %q contains invalid characters", slug)
		assert.LessOrEqual(t, len(slug), 60)
		assert.False(t, strings.HasPrefix(slug, "-"))
		assert.False(t, strings.HasSuffix(slug, "-"))
	}
}
