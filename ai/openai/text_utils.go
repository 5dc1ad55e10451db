package openai

import "strings"

// maxPromptChars caps the vendor text sent to a model. Scraped pricing
// pages can run to hundreds of kilobytes; the commercial facts are
// almost always near the top.
const maxPromptChars = 12000

// truncateText clamps text to max characters, cutting at the last
// whitespace boundary before the limit when possible.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexAny(cut, " \n\t"); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}

// stripFences removes markdown code fences that some models wrap around
// JSON output despite JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
