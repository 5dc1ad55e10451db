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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/analyzer"
	"github.com/latforge/sondeo/cache"
	"github.com/latforge/sondeo/confidence"
	"github.com/latforge/sondeo/core"
	"github.com/latforge/sondeo/crossval"
	"github.com/latforge/sondeo/storage"
	"github.com/panjf2000/ants/v2"
)

// Config collects every tunable of the processing pipeline. Zero fields
// keep their defaults.
type Config struct {
	// CacheTTL is how long analysis results stay valid in the
	// fingerprint cache.
	CacheTTL time.Duration

	// Analyzer holds the cascade thresholds and batch limits.
	Analyzer analyzer.Config

	// Crossval holds the cross-validation thresholds and blend weights.
	Crossval crossval.Config

	// Stages selects which cascade stages to run.
	Stages analyzer.Options

	// MinSimilarity is the similarity floor when looking up comparable
	// prior records for cross-validation and for Search.
	MinSimilarity float32

	// ComparableLimit caps how many prior records are pulled in for
	// cross-validation of one sample.
	ComparableLimit int

	// StoreAttempts is the number of tries for embedding and upserting a
	// processed record before the failure surfaces to the caller.
	StoreAttempts int

	// StoreBaseDelay is the backoff base between storage retries.
	StoreBaseDelay time.Duration
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        cache.DefaultTTL,
		Analyzer:        analyzer.DefaultConfig(),
		Crossval:        crossval.DefaultConfig(),
		Stages:          analyzer.DefaultOptions(),
		MinSimilarity:   0.75,
		ComparableLimit: 5,
		StoreAttempts:   3,
		StoreBaseDelay:  500 * time.Millisecond,
	}
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = def.MinSimilarity
	}
	if c.ComparableLimit <= 0 {
		c.ComparableLimit = def.ComparableLimit
	}
	if c.StoreAttempts <= 0 {
		c.StoreAttempts = def.StoreAttempts
	}
	if c.StoreBaseDelay <= 0 {
		c.StoreBaseDelay = def.StoreBaseDelay
	}
}

// Outcome is everything Process derives from one text sample.
type Outcome struct {
	Result          *core.AnalysisResult
	CrossValidation *core.CrossValidation
	Score           int                  // final confidence after cross-validation blending
	Label           core.ConfidenceLabel // alta / media / baja
	Comparables     int                  // prior records consulted for cross-validation
	Stored          bool
}

// Pipeline orchestrates the full processing of vendor text samples:
// fingerprint cache, cascading analysis, cross-validation against prior
// records, confidence scoring and vector persistence.
type Pipeline struct {
	repository storage.VectorRepository
	embedder   ai.Embedder
	cache      *cache.Cache
	analyzer   *analyzer.Analyzer
	validator  *crossval.Validator
	pool       *ants.Pool
	config     Config
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	config Config
	logger *slog.Logger
}

// WithConfig replaces the default pipeline configuration. Zero fields
// keep their defaults.
func WithConfig(config Config) Option {
	return func(o *pipelineOptions) {
		o.config = config
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *pipelineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewPipeline creates a processing pipeline on top of a vector repository
// and an AI provider.
func NewPipeline(repository storage.VectorRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	options := &pipelineOptions{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	options.config.normalize()

	cascade, err := analyzer.New(provider.Classifier(), provider.Analyst(),
		analyzer.WithConfig(options.config.Analyzer),
		analyzer.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	// The semantic judge only makes sense when the fallback model is in
	// play at all.
	var judge ai.Analyst
	if options.config.Stages.UseFallback {
		judge = provider.Analyst()
	}
	validator := crossval.New(judge, crossval.WithConfig(options.config.Crossval))

	pool, err := ants.NewPool(cascade.Config().Concurrency)
	if err != nil {
		cascade.Release()
		return nil, err
	}

	// Reflect the normalized component configs back so Config() reports
	// effective values.
	options.config.Analyzer = cascade.Config()
	options.config.Crossval = validator.Config()

	return &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		cache:      cache.New(cache.WithTTL(options.config.CacheTTL)),
		analyzer:   cascade,
		validator:  validator,
		pool:       pool,
		config:     options.config,
		logger:     options.logger.With("component", "pipeline"),
	}, nil
}

// Config returns the effective pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Release releases the worker pools. The pipeline should not be used
// after calling Release.
func (p *Pipeline) Release() {
	p.pool.Release()
	p.analyzer.Release()
}

// Process runs one sample through the whole pipeline and persists the
// outcome. An empty sample is the only input rejected outright; every
// other failure inside the cascade degrades to a lower-confidence result.
// A storage failure after retries is returned as an error so the caller
// can resubmit the sample.
func (p *Pipeline) Process(ctx context.Context, sample *core.TextSample) (*Outcome, error) {
	if err := core.ValidateTextSample(sample); err != nil {
		return nil, err
	}
	fp := sample.Fingerprint()

	result, err := p.cache.GetOrCompute(ctx, fp, func(ctx context.Context) (*core.AnalysisResult, error) {
		return p.analyzer.Analyze(ctx, sample, p.config.Stages)
	})
	if err != nil {
		return nil, err
	}

	if result.Method == core.MethodFailed {
		p.logger.Warn("analysis produced no usable result", "source", sample.Source)
		return &Outcome{Result: result, Label: confidence.LabelFor(0)}, nil
	}

	var vector []float32
	err = RetryWithBackoff(ctx, func() error {
		raw, embedErr := p.embedder.EmbedText(ctx, sample.Text)
		if embedErr != nil {
			return embedErr
		}
		vector = NormalizeVector(raw)
		return nil
	}, p.config.StoreAttempts, p.config.StoreBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("embedding sample %s: %w", fp, err)
	}

	priors := p.comparables(ctx, fp, vector, sample, result)
	candidates := append([]*core.AnalysisResult{result}, priors...)

	cv, err := p.validator.Validate(ctx, candidates...)
	if err != nil {
		// Validate only rejects empty input, which cannot happen here,
		// but degrade rather than fail the sample.
		p.logger.Warn("cross-validation failed", "fingerprint", fp, "err", err)
		cv = nil
	}

	score, label := confidence.Score(result.Confidence, cv)

	record := p.buildRecord(fp, vector, sample, result, cv, score)
	err = RetryWithBackoff(ctx, func() error {
		return p.repository.Upsert(ctx, record)
	}, p.config.StoreAttempts, p.config.StoreBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("storing record %s: %w", fp, err)
	}

	p.logger.Debug("sample processed",
		"fingerprint", fp,
		"method", result.Method.String(),
		"confidence", score,
		"label", label,
		"validated", cv != nil && cv.Validated)

	return &Outcome{
		Result:          result,
		CrossValidation: cv,
		Score:           score,
		Label:           label,
		Comparables:     len(priors),
		Stored:          true,
	}, nil
}

// Search embeds the query and runs a filtered similarity search over the
// stored records.
func (p *Pipeline) Search(ctx context.Context, query string, filters map[string]string, topK int) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = 10
	}

	vector, err := p.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return p.repository.FindSimilar(ctx, NormalizeVector(vector), filters, p.config.MinSimilarity, topK)
}

// comparables pulls prior records that plausibly describe the same
// (provider, module) fact and reconstructs their analysis results for
// cross-validation. The sample's own record is excluded so a re-run does
// not validate against itself.
func (p *Pipeline) comparables(ctx context.Context, fp core.Fingerprint, vector []float32, sample *core.TextSample, result *core.AnalysisResult) []*core.AnalysisResult {
	filters := map[string]string{"module": result.Classification}
	if sample.Provider != "" {
		filters["provider"] = sample.Provider
	}

	found, err := p.repository.FindSimilar(ctx, vector, filters, p.config.MinSimilarity, p.config.ComparableLimit+1)
	if err != nil {
		p.logger.Warn("comparable lookup failed", "fingerprint", fp, "err", err)
		return nil
	}

	priors := make([]*core.AnalysisResult, 0, len(found))
	for _, res := range found {
		if res.Record.ID == fp {
			continue
		}
		priors = append(priors, resultFromRecord(res.Record))
		if len(priors) == p.config.ComparableLimit {
			break
		}
	}
	return priors
}

// resultFromRecord rebuilds the analysis view of a stored record. Only
// the fields persisted in metadata are recoverable; conditions are not.
func resultFromRecord(record *core.VectorRecord) *core.AnalysisResult {
	return &core.AnalysisResult{
		Classification: record.Metadata.Module,
		EstimatedPrice: record.Metadata.Price,
		Confidence:     record.Metadata.Confidence,
		Country:        record.Metadata.Country,
		Currency:       record.Metadata.Currency,
		Source:         record.Metadata.SourceURL,
		Fingerprint:    record.ID,
	}
}

func (p *Pipeline) buildRecord(fp core.Fingerprint, vector []float32, sample *core.TextSample, result *core.AnalysisResult, cv *core.CrossValidation, score int) *core.VectorRecord {
	collectedAt := sample.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now().UTC()
	}
	sourceType := sample.SourceType
	if sourceType == "" {
		sourceType = "web"
	}
	_, region := core.DetectCountry(sample.Text)

	return &core.VectorRecord{
		ID:     fp,
		Vector: vector,
		Metadata: core.Metadata{
			Provider:    sample.Provider,
			Country:     result.Country,
			Region:      region,
			Currency:    result.Currency,
			Module:      result.Classification,
			Price:       result.EstimatedPrice,
			Confidence:  score,
			Validated:   cv != nil && cv.Validated,
			SourceURL:   sample.Source,
			SourceType:  sourceType,
			CollectedAt: collectedAt,
		},
		RawText: sample.Text,
	}
}
