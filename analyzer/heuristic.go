// Copyright 2026 Latforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package analyzer

import (
	"regexp"
	"strings"

	"github.com/latforge/sondeo/core"
)

// moduleSignals maps phrase signals to module labels. Order matters:
// more specific products are checked before generic wallet/API matches.
var moduleSignals = []struct {
	module   string
	keywords []string
}{
	{"KYC/KYB", []string{"kyc", "kyb", "identity verification", "verificación de identidad", "onboarding check", "liveness"}},
	{"Trading Platform", []string{"trading", "exchange platform", "order book", "matching engine"}},
	{"Payment Gateway", []string{"payment gateway", "pasarela de pago", "checkout", "acquiring"}},
	{"Tarjeta", []string{"card issuing", "tarjeta", "debit card", "credit card", "prepaid card"}},
	{"Liquidity Provider", []string{"liquidity", "liquidez", "market making", "otc desk"}},
	{"Compliance", []string{"compliance", "aml", "transaction monitoring", "sanctions screening"}},
	{"Wallet Avanzado", []string{"wallet with staking", "defi wallet", "advanced wallet", "multi-chain wallet"}},
	{"Wallet Base", []string{"wallet", "billetera", "custody", "custodia"}},
	{"White Label Solution", []string{"white label", "marca blanca", "white-label"}},
	{"API Integration", []string{"api", "sdk", "webhook", "sandbox"}},
}

// conditionPatterns capture commercial terms for the heuristic conditions
// map. Each match stores a trimmed snippet under its key.
var conditionPatterns = []struct {
	key     string
	pattern *regexp.Regexp
}{
	{"setup_fee", regexp.MustCompile(`(?i)(?:setup|set-up|implementation|onboarding)\s+(?:fee|cost)[^.;\n]{0,60}`)},
	{"monthly_cost", regexp.MustCompile(`(?i)(?:[$€£]?[\d,.]+\s*(?:USD|EUR|MXN)?\s*)?(?:per month|monthly|mensual|al mes)[^.;\n]{0,40}`)},
	{"transaction_fees", regexp.MustCompile(`(?i)(?:transaction|per[- ]transaction|processing)\s+fees?[^.;\n]{0,60}`)},
	{"minimum_requirements", regexp.MustCompile(`(?i)minimum\s+(?:of\s+)?[\d,.]+[^.;\n]{0,60}`)},
	{"contract_terms", regexp.MustCompile(`(?i)(?:\d+[- ](?:month|year|mes(?:es)?|año(?:s)?)\s+contract|contract term[^.;\n]{0,50}|annual commitment[^.;\n]{0,40})`)},
}

// runHeuristic analyzes text with pure pattern matching. It always
// produces a result; confidence reflects how much evidence accumulated
// and never exceeds the configured ceiling.
func (a *Analyzer) runHeuristic(text string) *core.AnalysisResult {
	normalized := core.NormalizeText(text)
	lower := strings.ToLower(normalized)

	module := "Otro"
	for _, sig := range moduleSignals {
		for _, kw := range sig.keywords {
			if strings.Contains(lower, kw) {
				module = sig.module
				break
			}
		}
		if module != "Otro" {
			break
		}
	}

	price := core.ExtractPrice(text)

	conditions := map[string]string{}
	for _, cp := range conditionPatterns {
		if m := cp.pattern.FindString(normalized); m != "" {
			conditions[cp.key] = strings.TrimSpace(m)
		}
	}

	// Evidence accumulation: a bare text scores 10, each recognized
	// commercial fact raises it.
	confidence := 10
	if module != "Otro" {
		confidence += 15
	}
	if price != "" {
		confidence += 15
	}
	confidence += 5 * len(conditions)
	if confidence > a.config.HeuristicCeiling {
		confidence = a.config.HeuristicCeiling
	}

	return &core.AnalysisResult{
		Classification: module,
		EstimatedPrice: price,
		Conditions:     conditions,
		Confidence:     confidence,
		Method:         core.MethodHeuristic,
	}
}
