package analyzer

import (
	"context"
	"testing"

	"github.com/latforge/sondeo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heuristicOnly runs a sample through an analyzer with no model services,
// so only the heuristic stage executes.
func heuristicOnly(t *testing.T, text string) *core.AnalysisResult {
	t.Helper()
	a := newTestAnalyzer(t, nil, nil)
	result, err := a.Analyze(context.Background(), sample(text, "test-source"), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, core.MethodHeuristic, result.Method)
	return result
}

func TestHeuristicModuleDetection(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		module string
	}{
		{"kyc", "KYC verification costs $0.50 per check", "KYC/KYB"},
		{"trading", "trading platform license from $50,000", "Trading Platform"},
		{"payment gateway", "payment gateway with 2.9% processing", "Payment Gateway"},
		{"card issuing", "card issuing program, prepaid card support", "Tarjeta"},
		{"liquidity", "deep liquidity for LATAM pairs", "Liquidity Provider"},
		{"compliance", "AML transaction monitoring suite", "Compliance"},
		{"wallet spanish", "billetera digital para tus usuarios", "Wallet Base"},
		{"white label", "white label crypto platform", "White Label Solution"},
		{"api only", "REST API with sandbox access", "API Integration"},
		{"nothing", "contact our sales team today", "Otro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := heuristicOnly(t, tt.text)
			assert.Equal(t, tt.module, result.Classification)
		})
	}
}

func TestHeuristicConditions(t *testing.T) {
	text := "KYC verification costs $0.50 per check. Setup fee of $2,000, minimum 1,000 checks per month, 12 month contract."
	result := heuristicOnly(t, text)

	assert.Equal(t, "KYC/KYB", result.Classification)
	assert.Equal(t, "$0.50", result.EstimatedPrice)
	assert.Contains(t, result.Conditions, "setup_fee")
	assert.Contains(t, result.Conditions, "minimum_requirements")
	assert.Contains(t, result.Conditions, "contract_terms")
}

func TestHeuristicConfidence(t *testing.T) {
	t.Run("capped at ceiling", func(t *testing.T) {
		// Rich text: module + price + several conditions
		text := "KYC verification costs $0.50 per check. Setup fee of $2,000, minimum 1,000 checks per month, 12 month contract."
		result := heuristicOnly(t, text)
		assert.Equal(t, DefaultConfig().HeuristicCeiling, result.Confidence)
	})

	t.Run("bare text scores low", func(t *testing.T) {
		result := heuristicOnly(t, "contact our sales team today")
		assert.Equal(t, 10, result.Confidence)
	})

	t.Run("partial evidence scores between", func(t *testing.T) {
		result := heuristicOnly(t, "white label crypto platform")
		assert.Equal(t, 25, result.Confidence) // base + module
	})

	t.Run("always within bounds", func(t *testing.T) {
		for _, text := range []string{
			"x",
			"KYC KYB wallet trading compliance $1 $2 $3 per month setup fee minimum 5 contract",
			"precio: $1,500 MXN mensual, billetera con custodia",
		} {
			result := heuristicOnly(t, text)
			assert.GreaterOrEqual(t, result.Confidence, 0)
			assert.LessOrEqual(t, result.Confidence, 100)
		}
	})
}
