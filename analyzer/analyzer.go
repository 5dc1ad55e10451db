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
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/core"
	"github.com/panjf2000/ants/v2"
)

// stage identifies one step of the analysis cascade.
type stage int

const (
	stageLocal stage = iota
	stageFallback
	stageHeuristic
	stageTerminal
)

// Config holds the cascade thresholds and batch limits.
type Config struct {
	// LocalThreshold is the minimum confidence a local-model result needs
	// to be accepted without falling through.
	LocalThreshold int

	// FallbackThreshold is the minimum confidence a fallback-model result
	// needs to be accepted.
	FallbackThreshold int

	// HeuristicCeiling caps the confidence a pattern-only analysis can
	// claim.
	HeuristicCeiling int

	// Concurrency bounds the worker pool used by AnalyzeBatch.
	Concurrency int

	// ItemTimeout is the per-sample deadline inside a batch.
	ItemTimeout time.Duration

	// BatchTimeout is the overall deadline for one AnalyzeBatch call.
	BatchTimeout time.Duration
}

// DefaultConfig returns the standard cascade configuration.
func DefaultConfig() Config {
	return Config{
		LocalThreshold:    70,
		FallbackThreshold: 60,
		HeuristicCeiling:  45,
		Concurrency:       4,
		ItemTimeout:       30 * time.Second,
		BatchTimeout:      300 * time.Second,
	}
}

// normalize fills zero fields with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.LocalThreshold <= 0 {
		c.LocalThreshold = def.LocalThreshold
	}
	if c.FallbackThreshold <= 0 {
		c.FallbackThreshold = def.FallbackThreshold
	}
	if c.HeuristicCeiling <= 0 {
		c.HeuristicCeiling = def.HeuristicCeiling
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
		if n := runtime.NumCPU() / 2; n > c.Concurrency {
			c.Concurrency = n
		}
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = def.ItemTimeout
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = def.BatchTimeout
	}
}

// Options selects which cascade stages a call may use. The heuristic
// stage is always available as the last resort.
type Options struct {
	UseLocal    bool
	UseFallback bool
}

// DefaultOptions enables the full cascade.
func DefaultOptions() Options {
	return Options{UseLocal: true, UseFallback: true}
}

// Analyzer runs vendor text through the cascading analysis pipeline:
// local model, then fallback model, then pattern heuristics.
// Safe for concurrent use.
type Analyzer struct {
	classifier ai.Classifier
	analyst    ai.Analyst
	config     Config
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithConfig replaces the default cascade configuration. Zero fields keep
// their defaults.
func WithConfig(config Config) Option {
	return func(a *Analyzer) error {
		config.normalize()
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// New creates an analyzer. Either model service may be nil; a nil service
// disables its stage and the cascade falls through to the next one.
func New(classifier ai.Classifier, analyst ai.Analyst, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		classifier: classifier,
		analyst:    analyst,
		config:     DefaultConfig(),
		logger:     slog.Default().With("component", "analyzer"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(a.config.Concurrency)
	if err != nil {
		return nil, err
	}
	a.pool = pool

	return a, nil
}

// Config returns the active configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

// Release frees the batch worker pool. The analyzer should not be used
// after calling Release.
func (a *Analyzer) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Analyze runs one sample through the cascade. It returns an error only
// for malformed samples (core.ErrEmptyText, core.ErrEmptySource) or a
// dead context; a degraded model landscape yields a lower-method result
// instead of an error.
func (a *Analyzer) Analyze(ctx context.Context, sample *core.TextSample, opts Options) (*core.AnalysisResult, error) {
	if err := core.ValidateTextSample(sample); err != nil {
		return nil, err
	}

	fp := sample.Fingerprint()

	// best holds the highest-confidence rejected result so far. An
	// accepted result short-circuits the cascade.
	var best *core.AnalysisResult

	for st := stageLocal; st != stageTerminal; st++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := a.runStage(ctx, st, sample, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.logger.Warn("analysis stage failed, falling through",
				"stage", st, "fingerprint", fp, "err", err)
			continue
		}
		if result == nil { // stage disabled
			continue
		}

		a.finish(result, sample, fp)

		if st != stageHeuristic && a.accepted(st, result) {
			a.logger.Debug("analysis accepted",
				"stage", st, "method", result.Method, "confidence", result.Confidence)
			return result, nil
		}

		// The heuristic result, like a below-threshold model result,
		// only stands if nothing earlier scored higher.
		if st != stageHeuristic {
			a.logger.Debug("analysis below stage threshold, falling through",
				"stage", st, "confidence", result.Confidence)
		}
		if best == nil || result.Confidence > best.Confidence {
			best = result
		}
	}

	if best != nil {
		return best, nil
	}

	// Every stage errored or was disabled.
	return &core.AnalysisResult{
		Method:      core.MethodFailed,
		Confidence:  0,
		Source:      sample.Source,
		Fingerprint: fp,
		Conditions:  map[string]string{},
	}, nil
}

// finish fills the sample-level fields every stage result shares: source
// attribution, fingerprint, and detected market country and currency.
func (a *Analyzer) finish(result *core.AnalysisResult, sample *core.TextSample, fp core.Fingerprint) {
	result.Source = sample.Source
	result.Fingerprint = fp
	result.Country, _ = core.DetectCountry(sample.Text)
	result.Currency = core.DetectCurrency(sample.Text)
}

// runStage executes one cascade stage. A nil result with nil error means
// the stage is disabled for this call.
func (a *Analyzer) runStage(ctx context.Context, st stage, sample *core.TextSample, opts Options) (*core.AnalysisResult, error) {
	switch st {
	case stageLocal:
		if !opts.UseLocal || a.classifier == nil {
			return nil, nil
		}
		return a.runLocal(ctx, sample.Text)
	case stageFallback:
		if !opts.UseFallback || a.analyst == nil {
			return nil, nil
		}
		return a.runFallback(ctx, sample.Text)
	case stageHeuristic:
		return a.runHeuristic(sample.Text), nil
	}
	return nil, nil
}

// accepted reports whether a model-stage result clears that stage's
// threshold. The heuristic stage has no threshold; its result competes
// with the best rejected result instead.
func (a *Analyzer) accepted(st stage, result *core.AnalysisResult) bool {
	switch st {
	case stageLocal:
		return result.Confidence >= a.config.LocalThreshold
	case stageFallback:
		return result.Confidence >= a.config.FallbackThreshold
	}
	return false
}

// runLocal combines the local model's classification and price extraction
// into one result.
func (a *Analyzer) runLocal(ctx context.Context, text string) (*core.AnalysisResult, error) {
	class, err := a.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	price, err := a.classifier.ExtractPrice(ctx, text)
	if err != nil {
		return nil, err
	}

	confidence := class.Confidence
	if price.Value != "" {
		confidence = (class.Confidence + price.Confidence) / 2
	}

	return &core.AnalysisResult{
		Classification: class.Module,
		EstimatedPrice: price.Value,
		Conditions:     map[string]string{},
		Confidence:     core.ClampConfidence(confidence),
		Method:         core.MethodLocal,
	}, nil
}

// runFallback delegates to the fallback model's full commercial analysis.
func (a *Analyzer) runFallback(ctx context.Context, text string) (*core.AnalysisResult, error) {
	analysis, err := a.analyst.AnalyzeCommercial(ctx, text)
	if err != nil {
		return nil, err
	}

	conditions := analysis.Conditions
	if conditions == nil {
		conditions = map[string]string{}
	}

	return &core.AnalysisResult{
		Classification: analysis.Module,
		EstimatedPrice: analysis.EstimatedPrice,
		Conditions:     conditions,
		Confidence:     core.ClampConfidence(analysis.Confidence),
		Method:         core.MethodFallback,
	}, nil
}
