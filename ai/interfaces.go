package ai

import (
	"context"

	"github.com/latforge/sondeo/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier is the local-model contract: fast, cheap classification and
// price extraction served by a locally hosted model.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify assigns a module taxonomy entry to the text with a 0-100
	// confidence. An unreachable backing service is reported as
	// core.ErrModelUnavailable so the caller can fall through.
	Classify(ctx context.Context, text string) (Classification, error)

	// ExtractPrice pulls the most plausible price from the text with a
	// 0-100 confidence. A missing price is a zero-value result, not an
	// error.
	ExtractPrice(ctx context.Context, text string) (PriceEstimate, error)
}

// Analyst is the fallback language-model contract. It is slower and more
// expensive than the Classifier but produces a complete structured
// analysis, and doubles as the semantic cross-validation judge.
// Implementations must be thread-safe for concurrent use.
type Analyst interface {
	// AnalyzeCommercial extracts the full set of commercial facts from
	// vendor text: classification, price, conditions, and a 0-100
	// confidence.
	AnalyzeCommercial(ctx context.Context, text string) (*CommercialAnalysis, error)

	// ValidateClaims asks the model whether two analysis results describe
	// the same commercial fact, returning an independent 0-100 confidence
	// and a short justification.
	ValidateClaims(ctx context.Context, a, b *core.AnalysisResult) (*SemanticValidation, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder, Classifier
// and Analyst instances, ensuring they share configuration and resources.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Classifier returns the local classification/extraction service.
	Classifier() Classifier

	// Analyst returns the fallback language-model service.
	Analyst() Analyst

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
