package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/ai/mock"
	"github.com/latforge/sondeo/core"
	"github.com/latforge/sondeo/storage"
	"github.com/latforge/sondeo/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedVector makes every embedding identical so similarity lookups in
// tests are driven purely by metadata filters.
var fixedVector = []float32{1, 0, 0}

func newTestMocks() (*mock.MockEmbedder, *mock.MockClassifier, *mock.MockAnalyst, ai.AIProvider) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return fixedVector, nil
	}
	classifier := mock.NewMockClassifier()
	analyst := mock.NewMockAnalyst()
	return embedder, classifier, analyst, mock.NewMockProviderWithServices(embedder, classifier, analyst)
}

func newTestPipeline(t *testing.T, provider ai.AIProvider, opts ...Option) (*Pipeline, storage.VectorRepository) {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	p, err := NewPipeline(repo, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p, repo
}

func TestNewPipelineValidation(t *testing.T) {
	_, _, _, provider := newTestMocks()

	_, err := NewPipeline(nil, provider)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestConfigDefaults(t *testing.T) {
	_, _, _, provider := newTestMocks()
	p, _ := newTestPipeline(t, provider, WithConfig(Config{}))

	cfg := p.Config()
	assert.Equal(t, 3600*time.Second, cfg.CacheTTL)
	assert.InDelta(t, 0.75, cfg.MinSimilarity, 0.001)
	assert.Equal(t, 5, cfg.ComparableLimit)
	assert.Equal(t, 3, cfg.StoreAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.StoreBaseDelay)
	assert.Equal(t, 70, cfg.Analyzer.LocalThreshold)
}

func TestProcessValidation(t *testing.T) {
	_, _, _, provider := newTestMocks()
	p, _ := newTestPipeline(t, provider)
	ctx := context.Background()

	_, err := p.Process(ctx, &core.TextSample{Text: "", Source: "https://example.com"})
	assert.ErrorIs(t, err, core.ErrEmptyText)

	_, err = p.Process(ctx, &core.TextSample{Text: "   \n\t  ", Source: "https://example.com"})
	assert.ErrorIs(t, err, core.ErrEmptyText)

	_, err = p.Process(ctx, &core.TextSample{Text: "KYC checks for $0.50", Source: ""})
	assert.ErrorIs(t, err, core.ErrEmptySource)
}

func TestProcessStoresSingleSource(t *testing.T) {
	_, classifier, _, provider := newTestMocks()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		return ai.Classification{Module: "KYC/KYB", Confidence: 90}, nil
	}
	classifier.ExtractPriceFunc = func(ctx context.Context, text string) (ai.PriceEstimate, error) {
		return ai.PriceEstimate{Value: "$0.50", Confidence: 90}, nil
	}

	p, repo := newTestPipeline(t, provider)
	ctx := context.Background()

	sample := &core.TextSample{
		Text:     "KYC verification costs $0.50 per check",
		Source:   "https://sumsub.com/pricing/",
		Provider: "Sumsub",
	}
	outcome, err := p.Process(ctx, sample)
	require.NoError(t, err)

	assert.True(t, outcome.Stored)
	assert.Equal(t, core.MethodLocal, outcome.Result.Method)
	assert.Equal(t, "KYC/KYB", outcome.Result.Classification)
	assert.Equal(t, 0, outcome.Comparables)

	// A lone observation is never validated, whatever its confidence
	require.NotNil(t, outcome.CrossValidation)
	assert.False(t, outcome.CrossValidation.Validated)
	assert.Equal(t, 1, outcome.CrossValidation.Sources)
	assert.Equal(t, 90, outcome.Score)
	assert.Equal(t, core.ConfidenceAlta, outcome.Label)

	record, err := repo.Get(ctx, sample.Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, "Sumsub", record.Metadata.Provider)
	assert.Equal(t, "KYC/KYB", record.Metadata.Module)
	assert.Equal(t, outcome.Result.EstimatedPrice, record.Metadata.Price)
	assert.Equal(t, 90, record.Metadata.Confidence)
	assert.False(t, record.Metadata.Validated)
	assert.Equal(t, "https://sumsub.com/pricing/", record.Metadata.SourceURL)
	assert.Equal(t, "web", record.Metadata.SourceType)
	assert.False(t, record.Metadata.CollectedAt.IsZero())
	assert.Equal(t, sample.Text, record.RawText)
}

func TestProcessCrossValidatesAgainstPriorRecords(t *testing.T) {
	_, classifier, _, provider := newTestMocks()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		return ai.Classification{Module: "KYC/KYB", Confidence: 90}, nil
	}
	classifier.ExtractPriceFunc = func(ctx context.Context, text string) (ai.PriceEstimate, error) {
		return ai.PriceEstimate{Value: "$0.50", Confidence: 90}, nil
	}

	p, repo := newTestPipeline(t, provider)
	ctx := context.Background()

	// An older observation of the same fact from an independent source
	prior := &core.VectorRecord{
		ID:     "prior-observation",
		Vector: fixedVector,
		Metadata: core.Metadata{
			Provider:    "Sumsub",
			Module:      "KYC/KYB",
			Price:       "$0.52",
			Confidence:  80,
			SourceURL:   "https://comparador.example/kyc-pricing",
			CollectedAt: time.Now().UTC().Add(-24 * time.Hour),
		},
		RawText: "Sumsub KYC pricing: $0.52 per verification",
	}
	require.NoError(t, repo.Upsert(ctx, prior))

	outcome, err := p.Process(ctx, &core.TextSample{
		Text:     "KYC verification costs $0.50 per check",
		Source:   "https://sumsub.com/pricing/",
		Provider: "Sumsub",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Comparables)
	require.NotNil(t, outcome.CrossValidation)
	assert.Equal(t, 2, outcome.CrossValidation.Sources)
	assert.InDelta(t, 1.0, outcome.CrossValidation.AgreementRatio, 0.001)
	// Matching module and price give agreement 100 and the mock judge's
	// semantic 90: equal weights blend to 95, then the final score
	// averages that with the analyzer's 90.
	assert.Equal(t, 95, outcome.CrossValidation.CombinedConfidence)
	assert.True(t, outcome.CrossValidation.Validated)
	assert.Equal(t, 92, outcome.Score)
	assert.Equal(t, core.ConfidenceAlta, outcome.Label)

	record, err := repo.Get(ctx, core.FingerprintFor("KYC verification costs $0.50 per check", "https://sumsub.com/pricing/"))
	require.NoError(t, err)
	assert.True(t, record.Metadata.Validated)
	assert.Equal(t, 92, record.Metadata.Confidence)
}

func TestProcessUsesCache(t *testing.T) {
	_, classifier, analyst, provider := newTestMocks()
	p, repo := newTestPipeline(t, provider)
	ctx := context.Background()

	sample := &core.TextSample{
		Text:     "Pasarela de pago con verificación KYC incluida, $500 USD mensuales",
		Source:   "https://vendor.example/pricing",
		Provider: "Vendor",
	}

	first, err := p.Process(ctx, sample)
	require.NoError(t, err)
	callsAfterFirst := classifier.CallCount() + analyst.CallCount()
	require.Positive(t, callsAfterFirst)

	second, err := p.Process(ctx, sample)
	require.NoError(t, err)

	// Second run hits the fingerprint cache: no new model calls, and the
	// re-run does not cross-validate against its own stored record.
	assert.Equal(t, callsAfterFirst, classifier.CallCount()+analyst.CallCount())
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 0, second.Comparables)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

type failingRepository struct {
	storage.VectorRepository
	upsertErr error
	attempts  int
}

func (f *failingRepository) Upsert(ctx context.Context, record *core.VectorRecord) error {
	f.attempts++
	return f.upsertErr
}

func TestProcessStorageFailureSurfaces(t *testing.T) {
	_, _, _, provider := newTestMocks()

	inner, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer inner.Close()

	diskFull := errors.New("disk full")
	repo := &failingRepository{VectorRepository: inner, upsertErr: diskFull}

	cfg := DefaultConfig()
	cfg.StoreBaseDelay = time.Millisecond
	p, err := NewPipeline(repo, provider, WithConfig(cfg))
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Process(context.Background(), &core.TextSample{
		Text:   "Trading platform license, $2,000 setup fee",
		Source: "https://vendor.example/trading",
	})
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, 3, repo.attempts, "upsert should be retried to exhaustion")
}

func TestProcessBatch(t *testing.T) {
	_, _, _, provider := newTestMocks()
	p, repo := newTestPipeline(t, provider)
	ctx := context.Background()

	samples := []*core.TextSample{
		{Text: "KYC verification costs $0.50 per check", Source: "https://a.example/kyc"},
		{Text: "   ", Source: "https://b.example/blank"},
		{Text: "White label wallet solution, setup fee $5,000 USD", Source: "https://c.example/wallet"},
	}

	report := p.ProcessBatch(ctx, samples)
	require.Len(t, report.Outcomes, 3)

	assert.NotNil(t, report.Outcomes[0])
	assert.Nil(t, report.Outcomes[1])
	assert.NotNil(t, report.Outcomes[2])

	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Failed[samples[1].Fingerprint()], core.ErrEmptyText)
	assert.Zero(t, report.Timeouts)
	assert.Positive(t, report.Elapsed)

	methodTotal := 0
	for _, n := range report.Methods {
		methodTotal += n
	}
	assert.Equal(t, 2, methodTotal)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
}

func TestProcessBatchItemTimeoutIsolation(t *testing.T) {
	_, classifier, analyst, provider := newTestMocks()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		if strings.Contains(text, "slow") {
			<-ctx.Done()
			return ai.Classification{}, ctx.Err()
		}
		return ai.Classification{Module: "KYC/KYB", Confidence: 90}, nil
	}
	analyst.AnalyzeCommercialFunc = func(ctx context.Context, text string) (*ai.CommercialAnalysis, error) {
		return nil, core.ErrModelUnavailable
	}

	cfg := DefaultConfig()
	cfg.Analyzer.ItemTimeout = 100 * time.Millisecond
	cfg.Analyzer.Concurrency = 2
	p, _ := newTestPipeline(t, provider, WithConfig(cfg))

	samples := []*core.TextSample{
		{Text: "KYC checks for $0.40", Source: "https://a.example"},
		{Text: "KYC checks for $0.45", Source: "https://b.example"},
		{Text: "slow vendor page that never answers", Source: "https://c.example"},
		{Text: "KYC checks for $0.55", Source: "https://d.example"},
		{Text: "KYC checks for $0.60", Source: "https://e.example"},
	}

	report := p.ProcessBatch(context.Background(), samples)

	assert.Nil(t, report.Outcomes[2])
	assert.ErrorIs(t, report.Failed[samples[2].Fingerprint()], core.ErrItemTimeout)
	assert.Equal(t, 1, report.Timeouts)

	for _, i := range []int{0, 1, 3, 4} {
		require.NotNil(t, report.Outcomes[i], "sibling %d should be unaffected", i)
		assert.True(t, report.Outcomes[i].Stored)
	}
}

func TestSearch(t *testing.T) {
	_, _, _, provider := newTestMocks()
	p, repo := newTestPipeline(t, provider)
	ctx := context.Background()

	seed := []*core.VectorRecord{
		{ID: "mx-1", Vector: []float32{1, 0, 0}, Metadata: core.Metadata{Country: "México", Module: "KYC/KYB", CollectedAt: time.Now().UTC()}},
		{ID: "mx-2", Vector: []float32{0.95, 0.3122499, 0}, Metadata: core.Metadata{Country: "México", Module: "KYC/KYB", CollectedAt: time.Now().UTC()}},
		{ID: "mx-3", Vector: []float32{0.9, 0.4358899, 0}, Metadata: core.Metadata{Country: "México", Module: "KYC/KYB", CollectedAt: time.Now().UTC()}},
		{ID: "mx-4", Vector: []float32{0.85, 0.5267827, 0}, Metadata: core.Metadata{Country: "México", Module: "KYC/KYB", CollectedAt: time.Now().UTC()}},
		{ID: "co-1", Vector: []float32{1, 0, 0}, Metadata: core.Metadata{Country: "Colombia", Module: "KYC/KYB", CollectedAt: time.Now().UTC()}},
		{ID: "mx-card", Vector: []float32{1, 0, 0}, Metadata: core.Metadata{Country: "México", Module: "Tarjeta", CollectedAt: time.Now().UTC()}},
	}
	for _, rec := range seed {
		require.NoError(t, repo.Upsert(ctx, rec))
	}

	t.Run("filtered topK", func(t *testing.T) {
		results, err := p.Search(ctx, "verificación de identidad KYC",
			map[string]string{"country": "México", "module": "KYC/KYB"}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		for i, res := range results {
			assert.Equal(t, "México", res.Record.Metadata.Country)
			assert.Equal(t, "KYC/KYB", res.Record.Metadata.Module)
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].Score, res.Score)
			}
		}
		assert.Equal(t, core.Fingerprint("mx-1"), results[0].Record.ID)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := p.Search(ctx, "  ", nil, 3)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}
