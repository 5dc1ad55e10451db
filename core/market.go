package core

import (
	"regexp"
	"strings"
)

// RegionMexico and RegionLATAM are the region values attached to record
// metadata when a country is detected.
const (
	RegionMexico = "México"
	RegionLATAM  = "LATAM"
)

// latamCountries maps canonical country names to the lowercase keywords
// that indicate them in vendor text.
var latamCountries = []struct {
	name     string
	keywords []string
}{
	{"México", []string{"mexico", "méxico", "mexican"}},
	{"Argentina", []string{"argentina", "argentine"}},
	{"Colombia", []string{"colombia", "colombian"}},
	{"Chile", []string{"chile", "chilean"}},
	{"Perú", []string{"peru", "perú", "peruvian"}},
	{"Uruguay", []string{"uruguay"}},
	{"Paraguay", []string{"paraguay"}},
	{"Bolivia", []string{"bolivia"}},
	{"Ecuador", []string{"ecuador"}},
	{"Venezuela", []string{"venezuela"}},
	{"Guatemala", []string{"guatemala"}},
	{"Honduras", []string{"honduras"}},
	{"El Salvador", []string{"el salvador"}},
	{"Nicaragua", []string{"nicaragua"}},
	{"Costa Rica", []string{"costa rica"}},
	{"Panamá", []string{"panama", "panamá"}},
	{"República Dominicana", []string{"republica dominicana", "dominican republic"}},
	{"Puerto Rico", []string{"puerto rico"}},
	{"Brasil", []string{"brazil", "brasil", "brazilian"}},
}

// currencyPatterns maps ISO currency codes to the regular expressions that
// indicate them.
var currencyPatterns = []struct {
	code     string
	patterns []*regexp.Regexp
}{
	{"MXN", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmxn\b`),
		regexp.MustCompile(`(?i)pesos?\s+mexicanos?`),
		regexp.MustCompile(`(?i)mexican\s+pesos?`),
	}},
	{"ARS", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bars\b`),
		regexp.MustCompile(`(?i)pesos?\s+argentinos?`),
		regexp.MustCompile(`(?i)argentine\s+pesos?`),
	}},
	{"COP", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcop\b`),
		regexp.MustCompile(`(?i)pesos?\s+colombianos?`),
		regexp.MustCompile(`(?i)colombian\s+pesos?`),
	}},
	{"CLP", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bclp\b`),
		regexp.MustCompile(`(?i)pesos?\s+chilenos?`),
		regexp.MustCompile(`(?i)chilean\s+pesos?`),
	}},
	{"PEN", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bpen\b`),
		regexp.MustCompile(`(?i)\bsoles?\b`),
	}},
	{"BRL", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbrl\b`),
		regexp.MustCompile(`(?i)\breais?\b`),
	}},
	{"EUR", []*regexp.Regexp{
		regexp.MustCompile(`€`),
		regexp.MustCompile(`(?i)\beur\b`),
		regexp.MustCompile(`(?i)\beuros?\b`),
	}},
	// USD last: the bare $ sign is ambiguous across the region, so any
	// explicit local-currency mention wins.
	{"USD", []*regexp.Regexp{
		regexp.MustCompile(`\$`),
		regexp.MustCompile(`(?i)\busd\b`),
		regexp.MustCompile(`(?i)\bdollars?\b`),
		regexp.MustCompile(`(?i)\bdólares?\b`),
	}},
}

// DetectCountry scans text for a LATAM country mention and returns the
// canonical country name and its region. Both are "" when nothing matches.
func DetectCountry(text string) (country, region string) {
	lower := strings.ToLower(text)
	for _, entry := range latamCountries {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				if entry.name == "México" {
					return entry.name, RegionMexico
				}
				return entry.name, RegionLATAM
			}
		}
	}
	return "", ""
}

// DetectCurrency scans text for a currency mention and returns its ISO
// code, or "" when none is found.
func DetectCurrency(text string) string {
	for _, entry := range currencyPatterns {
		for _, pattern := range entry.patterns {
			if pattern.MatchString(text) {
				return entry.code
			}
		}
	}
	return ""
}
