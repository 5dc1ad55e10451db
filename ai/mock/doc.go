// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Classifier,
// ai.Analyst, and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	class, err := mockProvider.Classifier().Classify(ctx, "KYC checks at $0.50")
//
//	// Custom behavior injection
//	mockClassifier := mock.NewMockClassifier()
//	mockClassifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
//	    return ai.Classification{Module: "KYC/KYB", Confidence: 55}, nil
//	}
//
//	// Check call counts
//	count := mockClassifier.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockClassifier: Keyword-based module labels, heuristic price extraction
//   - MockAnalyst: Keyword analysis; validation scored from field agreement
//   - MockProvider: Aggregates mock embedder, classifier and analyst
package mock
