package mock

import (
	"context"
	"strings"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/core"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword-based classification.
	ClassifyFunc func(ctx context.Context, text string) (ai.Classification, error)

	// ExtractPriceFunc is called by ExtractPrice if set.
	// If nil, uses the heuristic price extractor.
	ExtractPriceFunc func(ctx context.Context, text string) (ai.PriceEstimate, error)

	callCount int
}

// moduleKeywords maps lowercase keywords to module labels for the default
// classification behavior.
var moduleKeywords = []struct {
	keyword string
	module  string
}{
	{"kyc", "KYC/KYB"},
	{"kyb", "KYC/KYB"},
	{"identity verification", "KYC/KYB"},
	{"trading", "Trading Platform"},
	{"exchange", "Trading Platform"},
	{"payment gateway", "Payment Gateway"},
	{"card", "Tarjeta"},
	{"tarjeta", "Tarjeta"},
	{"liquidity", "Liquidity Provider"},
	{"compliance", "Compliance"},
	{"aml", "Compliance"},
	{"white label", "White Label Solution"},
	{"api", "API Integration"},
	{"wallet", "Wallet Base"},
}

// NewMockClassifier creates a mock classifier with default keyword behavior.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify assigns a module label based on simple keyword matching.
func (m *MockClassifier) Classify(ctx context.Context, text string) (ai.Classification, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	lower := strings.ToLower(text)
	for _, mk := range moduleKeywords {
		if strings.Contains(lower, mk.keyword) {
			return ai.Classification{Module: mk.module, Confidence: 75}, nil
		}
	}
	return ai.Classification{Module: "Otro", Confidence: 30}, nil
}

// ExtractPrice extracts a price using the heuristic pattern matcher.
func (m *MockClassifier) ExtractPrice(ctx context.Context, text string) (ai.PriceEstimate, error) {
	m.callCount++

	if m.ExtractPriceFunc != nil {
		return m.ExtractPriceFunc(ctx, text)
	}

	price := core.ExtractPrice(text)
	if price == "" {
		return ai.PriceEstimate{}, nil
	}
	return ai.PriceEstimate{Value: price, Confidence: 70}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
	m.ExtractPriceFunc = nil
}
