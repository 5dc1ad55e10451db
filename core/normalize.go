package core

import (
	"regexp"
	"strings"
)

var (
	reNoise     = regexp.MustCompile(`[^\p{L}\p{N}\s.,$€£¥+%-]`)
	reSpaces    = regexp.MustCompile(`\s+`)
	reThousands = regexp.MustCompile(`(\d),(\d{3})`)
)

// NormalizeText cleans scraped text for fingerprinting and pattern
// extraction: strips markup noise while keeping price-relevant symbols,
// collapses whitespace, and removes thousands separators so "1,000" and
// "1000" fingerprint identically.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = reNoise.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")

	// Thousands separators need repeated passes: "1,000,000" collapses
	// one group per pass.
	for {
		replaced := reThousands.ReplaceAllString(text, "$1$2")
		if replaced == text {
			break
		}
		text = replaced
	}

	return strings.TrimSpace(text)
}
