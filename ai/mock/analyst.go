package mock

import (
	"context"
	"strings"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/core"
)

// MockAnalyst is a test double for ai.Analyst.
// It allows custom behavior injection via function fields.
type MockAnalyst struct {
	// AnalyzeCommercialFunc is called by AnalyzeCommercial if set.
	// If nil, uses default keyword and pattern based behavior.
	AnalyzeCommercialFunc func(ctx context.Context, text string) (*ai.CommercialAnalysis, error)

	// ValidateClaimsFunc is called by ValidateClaims if set.
	// If nil, uses default field-agreement behavior.
	ValidateClaimsFunc func(ctx context.Context, a, b *core.AnalysisResult) (*ai.SemanticValidation, error)

	callCount int
}

// NewMockAnalyst creates a mock analyst with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyst().
func NewMockAnalyst() *MockAnalyst {
	return &MockAnalyst{}
}

// AnalyzeCommercial produces a plausible analysis from keyword matching
// and the heuristic price extractor.
func (m *MockAnalyst) AnalyzeCommercial(ctx context.Context, text string) (*ai.CommercialAnalysis, error) {
	m.callCount++

	if m.AnalyzeCommercialFunc != nil {
		return m.AnalyzeCommercialFunc(ctx, text)
	}

	module := "Otro"
	lower := strings.ToLower(text)
	for _, mk := range moduleKeywords {
		if strings.Contains(lower, mk.keyword) {
			module = mk.module
			break
		}
	}

	return &ai.CommercialAnalysis{
		EstimatedPrice: core.ExtractPrice(text),
		Module:         module,
		Conditions:     map[string]string{},
		Confidence:     85,
	}, nil
}

// ValidateClaims scores agreement from the structured fields of the two
// results: module match, price proximity, and country match.
func (m *MockAnalyst) ValidateClaims(ctx context.Context, a, b *core.AnalysisResult) (*ai.SemanticValidation, error) {
	m.callCount++

	if m.ValidateClaimsFunc != nil {
		return m.ValidateClaimsFunc(ctx, a, b)
	}

	confidence := 20
	justification := "observations share no commercial facts"

	sameModule := a.Classification != "" && a.Classification == b.Classification
	// PriceWithinTolerance rejects unparseable or empty prices itself.
	samePrice := core.PriceWithinTolerance(a.EstimatedPrice, b.EstimatedPrice, 0.10)

	switch {
	case sameModule && samePrice:
		confidence = 90
		justification = "same module and matching price"
	case sameModule || samePrice:
		confidence = 60
		justification = "partial agreement between observations"
	}

	return &ai.SemanticValidation{
		Confidence:    confidence,
		Justification: justification,
	}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockAnalyst) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnalyst) Reset() {
	m.callCount = 0
	m.AnalyzeCommercialFunc = nil
	m.ValidateClaimsFunc = nil
}
