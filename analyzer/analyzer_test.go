package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/ai/mock"
	"github.com/latforge/sondeo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T, classifier ai.Classifier, analyst ai.Analyst, opts ...Option) *Analyzer {
	t.Helper()
	a, err := New(classifier, analyst, opts...)
	require.NoError(t, err)
	t.Cleanup(a.Release)
	return a
}

func sample(text, source string) *core.TextSample {
	return &core.TextSample{Text: text, Source: source}
}

func TestAnalyzeValidation(t *testing.T) {
	a := newTestAnalyzer(t, mock.NewMockClassifier(), mock.NewMockAnalyst())
	ctx := context.Background()

	t.Run("nil sample", func(t *testing.T) {
		_, err := a.Analyze(ctx, nil, DefaultOptions())
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})

	t.Run("whitespace only text", func(t *testing.T) {
		_, err := a.Analyze(ctx, sample("   \n\t ", "somewhere"), DefaultOptions())
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := a.Analyze(ctx, sample("KYC checks at $0.50", ""), DefaultOptions())
		assert.ErrorIs(t, err, core.ErrEmptySource)
	})
}

func TestAnalyzeLocalAccepted(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		return ai.Classification{Module: "KYC/KYB", Confidence: 90}, nil
	}
	classifier.ExtractPriceFunc = func(ctx context.Context, text string) (ai.PriceEstimate, error) {
		return ai.PriceEstimate{Value: "$0.50", Confidence: 80}, nil
	}

	analyst := mock.NewMockAnalyst()
	a := newTestAnalyzer(t, classifier, analyst)

	result, err := a.Analyze(context.Background(), sample("KYC verification costs $0.50 per check", "vendor-page"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, core.MethodLocal, result.Method)
	assert.Equal(t, "KYC/KYB", result.Classification)
	assert.Equal(t, "$0.50", result.EstimatedPrice)
	assert.Equal(t, 85, result.Confidence) // mean of 90 and 80
	assert.Equal(t, "vendor-page", result.Source)
	assert.NotEmpty(t, result.Fingerprint)
	// Fallback never consulted
	assert.Equal(t, 0, analyst.CallCount())
}

func TestAnalyzeCascadeFallthrough(t *testing.T) {
	t.Run("local below threshold falls to fallback", func(t *testing.T) {
		classifier := mock.NewMockClassifier()
		classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
			return ai.Classification{Module: "KYC/KYB", Confidence: 55}, nil
		}
		classifier.ExtractPriceFunc = func(ctx context.Context, text string) (ai.PriceEstimate, error) {
			return ai.PriceEstimate{Value: "$0.50", Confidence: 55}, nil
		}

		analyst := mock.NewMockAnalyst()
		analyst.AnalyzeCommercialFunc = func(ctx context.Context, text string) (*ai.CommercialAnalysis, error) {
			return &ai.CommercialAnalysis{
				EstimatedPrice: "$0.50",
				Module:         "KYC/KYB",
				Conditions:     map[string]string{},
				Confidence:     92,
			}, nil
		}

		a := newTestAnalyzer(t, classifier, analyst)
		result, err := a.Analyze(context.Background(),
			sample("KYC verification costs $0.50 per check", "https://sumsub.com/pricing/"), DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, core.MethodFallback, result.Method)
		assert.Equal(t, 92, result.Confidence)
		assert.Equal(t, "$0.50", result.EstimatedPrice)
		assert.Equal(t, "KYC/KYB", result.Classification)
		assert.Equal(t, 1, analyst.CallCount())
	})

	t.Run("local unavailable falls to fallback", func(t *testing.T) {
		classifier := mock.NewMockClassifier()
		classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
			return ai.Classification{}, core.ErrModelUnavailable
		}

		analyst := mock.NewMockAnalyst()
		a := newTestAnalyzer(t, classifier, analyst)

		result, err := a.Analyze(context.Background(), sample("wallet custody service at $500 per month", "deck"), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, core.MethodFallback, result.Method)
	})

	t.Run("both models fail falls to heuristic", func(t *testing.T) {
		classifier := mock.NewMockClassifier()
		classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
			return ai.Classification{}, core.ErrModelUnavailable
		}
		analyst := mock.NewMockAnalyst()
		analyst.AnalyzeCommercialFunc = func(ctx context.Context, text string) (*ai.CommercialAnalysis, error) {
			return nil, core.ErrModelUnavailable
		}

		a := newTestAnalyzer(t, classifier, analyst)
		result, err := a.Analyze(context.Background(), sample("KYC verification costs $0.50 per check", "page"), DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, core.MethodHeuristic, result.Method)
		assert.Equal(t, "KYC/KYB", result.Classification)
		assert.Equal(t, "$0.50", result.EstimatedPrice)
		assert.LessOrEqual(t, result.Confidence, DefaultConfig().HeuristicCeiling)
	})

	t.Run("best rejected result beats weaker heuristic", func(t *testing.T) {
		classifier := mock.NewMockClassifier()
		classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
			return ai.Classification{Module: "KYC/KYB", Confidence: 55}, nil
		}
		classifier.ExtractPriceFunc = func(ctx context.Context, text string) (ai.PriceEstimate, error) {
			return ai.PriceEstimate{Value: "$0.50", Confidence: 55}, nil
		}
		analyst := mock.NewMockAnalyst()
		analyst.AnalyzeCommercialFunc = func(ctx context.Context, text string) (*ai.CommercialAnalysis, error) {
			return &ai.CommercialAnalysis{Module: "KYC/KYB", Confidence: 50, Conditions: map[string]string{}}, nil
		}

		a := newTestAnalyzer(t, classifier, analyst)
		result, err := a.Analyze(context.Background(), sample("KYC verification costs $0.50 per check", "page"), DefaultOptions())
		require.NoError(t, err)

		// Local 55 was rejected but still outranks fallback 50 and the
		// capped heuristic
		assert.Equal(t, core.MethodLocal, result.Method)
		assert.Equal(t, 55, result.Confidence)
	})

	t.Run("disabled local goes straight to fallback", func(t *testing.T) {
		classifier := mock.NewMockClassifier()
		analyst := mock.NewMockAnalyst()
		a := newTestAnalyzer(t, classifier, analyst)

		result, err := a.Analyze(context.Background(), sample("trading platform license $50,000", "deck"),
			Options{UseLocal: false, UseFallback: true})
		require.NoError(t, err)

		assert.Equal(t, core.MethodFallback, result.Method)
		assert.Equal(t, 0, classifier.CallCount())
	})
}

func TestAnalyzeConfidenceBounds(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		return ai.Classification{Module: "KYC/KYB", Confidence: 250}, nil
	}
	classifier.ExtractPriceFunc = func(ctx context.Context, text string) (ai.PriceEstimate, error) {
		return ai.PriceEstimate{Value: "$1.00", Confidence: 300}, nil
	}

	a := newTestAnalyzer(t, classifier, mock.NewMockAnalyst())
	result, err := a.Analyze(context.Background(), sample("KYC checks $1.00", "page"), DefaultOptions())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Confidence, 0)
	assert.LessOrEqual(t, result.Confidence, 100)
}

func TestAnalyzeContextCancelled(t *testing.T) {
	a := newTestAnalyzer(t, mock.NewMockClassifier(), mock.NewMockAnalyst())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, sample("KYC checks $1.00", "page"), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{}
	cfg.normalize()

	def := DefaultConfig()
	assert.Equal(t, def.LocalThreshold, cfg.LocalThreshold)
	assert.Equal(t, def.FallbackThreshold, cfg.FallbackThreshold)
	assert.Equal(t, def.HeuristicCeiling, cfg.HeuristicCeiling)
	assert.GreaterOrEqual(t, cfg.Concurrency, def.Concurrency)
	assert.Equal(t, def.ItemTimeout, cfg.ItemTimeout)
	assert.Equal(t, def.BatchTimeout, cfg.BatchTimeout)

	// Custom values survive
	custom := Config{LocalThreshold: 80, Concurrency: 2}
	custom.normalize()
	assert.Equal(t, 80, custom.LocalThreshold)
	assert.Equal(t, 2, custom.Concurrency)
}

func TestAnalyzerOptionError(t *testing.T) {
	failing := func(a *Analyzer) error { return errors.New("bad option") }
	_, err := New(mock.NewMockClassifier(), mock.NewMockAnalyst(), failing)
	assert.Error(t, err)
}
