package core

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Price extraction patterns, ordered from most to least specific. Each
// pattern captures the numeric part of a price mention.
var pricePatterns = []*regexp.Regexp{
	// Currency-prefixed amounts
	regexp.MustCompile(`(?i)\$\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)USD\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)€\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)EUR\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)£\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)GBP\s*([\d,]+(?:\.\d{1,2})?)`),
	// Currency-suffixed amounts
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*(?:dollars?|euros?|pounds?)`),
	// Amounts adjacent to pricing keywords
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*(?:price|cost|fee|charge)`),
	regexp.MustCompile(`(?i)(?:price|cost|fee|charge)\s*[:-]?\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	// Recurring amounts
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*per\s*(?:month|year|annum|check|verification|transaction)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*(?:monthly|yearly|annual)`),
	// Setup fees
	regexp.MustCompile(`(?i)setup\s*(?:fee|cost)\s*[:-]?\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*setup`),
}

var (
	reLargeNumber = regexp.MustCompile(`\d{4,}(?:,\d{3})*(?:\.\d{1,2})?`)
	reNonNumeric  = regexp.MustCompile(`[^\d.]`)
)

// Keywords that suggest a nearby number is a real price.
var priceContextKeywords = []string{
	"price", "cost", "fee", "charge", "setup", "monthly", "annual",
	"subscription", "license", "package", "plan", "tier", "pricing",
}

// ExtractPrice pulls the most plausible price mention out of text and
// returns it normalized ("$1,500" style). Returns "" when no price-like
// value is found.
func ExtractPrice(text string) string {
	if text == "" {
		return ""
	}

	cleaned := NormalizeText(text)

	var found []string
	for _, pattern := range pricePatterns {
		for _, match := range pattern.FindAllStringSubmatch(cleaned, -1) {
			if price := NormalizePrice(match[1]); price != "" {
				found = append(found, price)
			}
		}
	}

	// Last resort: bare large numbers, which are often undecorated prices
	// in scraped pricing tables.
	if len(found) == 0 {
		for _, match := range reLargeNumber.FindAllString(cleaned, -1) {
			if price := NormalizePrice(match); price != "" {
				found = append(found, price)
			}
		}
	}

	if len(found) == 0 {
		return ""
	}

	for _, price := range found {
		if isLikelyPrice(price, cleaned) {
			return price
		}
	}
	return found[0]
}

// NormalizePrice canonicalizes a raw price token into "$N" form. Amounts
// of a thousand or more drop cents and gain thousands separators; smaller
// amounts keep two decimal places. Returns "" for non-numeric input.
func NormalizePrice(raw string) string {
	value, ok := ParsePrice(raw)
	if !ok {
		return ""
	}
	if value >= 1000 {
		return "$" + groupThousands(int64(math.Round(value)))
	}
	return fmt.Sprintf("$%.2f", value)
}

// ParsePrice extracts the numeric value from a price string, tolerating
// currency symbols and separators.
func ParsePrice(raw string) (float64, bool) {
	digits := reNonNumeric.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PriceWithinTolerance reports whether two price strings describe the same
// amount within a relative tolerance (0.10 = ±10%). Two unparseable prices
// never agree.
func PriceWithinTolerance(a, b string, tolerance float64) bool {
	va, okA := ParsePrice(a)
	vb, okB := ParsePrice(b)
	if !okA || !okB {
		return false
	}
	if va == vb {
		return true
	}
	larger := math.Max(va, vb)
	if larger == 0 {
		return false
	}
	return math.Abs(va-vb)/larger <= tolerance
}

// isLikelyPrice checks that a candidate sits in a plausible commercial
// range and that its context mentions pricing at all.
func isLikelyPrice(price, context string) bool {
	value, ok := ParsePrice(price)
	if !ok {
		return false
	}

	lower := strings.ToLower(context)
	hasKeyword := false
	for _, keyword := range priceContextKeywords {
		if strings.Contains(lower, keyword) {
			hasKeyword = true
			break
		}
	}

	return hasKeyword && value >= 0.01 && value <= 1000000
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
