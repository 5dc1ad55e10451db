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


package crossval

import (
	"context"
	"log/slog"
	"math"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/core"
)

// Config holds the validation thresholds and blend weights.
type Config struct {
	// MinConfidence is the combined confidence a fact needs to be marked
	// validated.
	MinConfidence int

	// RequiredSources is how many distinct sources must agree.
	RequiredSources int

	// PriceTolerance is the relative difference two prices may show and
	// still count as agreeing (0.10 = ±10%).
	PriceTolerance float64

	// AgreementWeight and SemanticWeight blend the structural agreement
	// score with the model's semantic verdict. They are normalized by
	// their sum, so only their ratio matters.
	AgreementWeight float64
	SemanticWeight  float64
}

// DefaultConfig returns the standard validation configuration: both
// signals weighted equally.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   70,
		RequiredSources: 2,
		PriceTolerance:  0.10,
		AgreementWeight: 0.5,
		SemanticWeight:  0.5,
	}
}

// normalize fills zero fields with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.MinConfidence <= 0 {
		c.MinConfidence = def.MinConfidence
	}
	if c.RequiredSources <= 0 {
		c.RequiredSources = def.RequiredSources
	}
	if c.PriceTolerance <= 0 {
		c.PriceTolerance = def.PriceTolerance
	}
	if c.AgreementWeight <= 0 && c.SemanticWeight <= 0 {
		c.AgreementWeight = def.AgreementWeight
		c.SemanticWeight = def.SemanticWeight
	}
}

// Validator reconciles independent analysis results that claim to
// describe the same commercial fact. Safe for concurrent use.
type Validator struct {
	analyst ai.Analyst
	config  Config
	logger  *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithConfig replaces the default configuration. Zero fields keep their
// defaults.
func WithConfig(config Config) Option {
	return func(v *Validator) {
		config.normalize()
		v.config = config
	}
}

// New creates a validator. The analyst may be nil, in which case the
// semantic blend is skipped and structural agreement decides alone.
func New(analyst ai.Analyst, opts ...Option) *Validator {
	v := &Validator{
		analyst: analyst,
		config:  DefaultConfig(),
		logger:  slog.Default().With("component", "crossval"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Config returns the active configuration.
func (v *Validator) Config() Config {
	return v.config
}

// Validate reconciles two or more analysis results. A single result is
// never validated regardless of its confidence; zero results is an
// error. The error path is reserved for unusable input — a disagreeing
// set of results is a valid, unvalidated outcome.
func (v *Validator) Validate(ctx context.Context, results ...*core.AnalysisResult) (*core.CrossValidation, error) {
	observed := make([]*core.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			observed = append(observed, r)
		}
	}
	if len(observed) == 0 {
		return nil, core.ErrInsufficientResults
	}

	sources := distinctSources(observed)

	if len(observed) == 1 {
		// Nothing to reconcile: carry the analyzer's own confidence but
		// never mark a single observation validated.
		return &core.CrossValidation{
			CombinedConfidence: core.ClampConfidence(observed[0].Confidence),
			Validated:          false,
			AgreementRatio:     0,
			Sources:            sources,
		}, nil
	}

	ratio := v.agreementRatio(observed)
	combined := ratio * 100

	if v.analyst != nil {
		if semantic, ok := v.semanticScore(ctx, observed); ok {
			wSum := v.config.AgreementWeight + v.config.SemanticWeight
			combined = (v.config.AgreementWeight*combined + v.config.SemanticWeight*semantic) / wSum
		}
	}

	confidence := core.ClampConfidence(int(math.Round(combined)))
	validated := confidence >= v.config.MinConfidence && sources >= v.config.RequiredSources

	v.logger.Debug("cross-validation complete",
		"results", len(observed),
		"sources", sources,
		"agreement", ratio,
		"confidence", confidence,
		"validated", validated)

	return &core.CrossValidation{
		CombinedConfidence: confidence,
		Validated:          validated,
		AgreementRatio:     ratio,
		Sources:            sources,
	}, nil
}

// distinctSources counts unique non-empty Source values.
func distinctSources(results []*core.AnalysisResult) int {
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r.Source != "" {
			seen[r.Source] = struct{}{}
		}
	}
	return len(seen)
}

// agreementRatio computes the share of agreeing pairwise flags across
// all result pairs. A flag is only checked when both sides carry the
// field; a pair of results with no comparable fields contributes
// nothing.
func (v *Validator) agreementRatio(results []*core.AnalysisResult) float64 {
	checked, agreed := 0, 0

	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			a, b := results[i], results[j]

			if a.Classification != "" && b.Classification != "" {
				checked++
				if a.Classification == b.Classification {
					agreed++
				}
			}

			pa, okA := core.ParsePrice(a.EstimatedPrice)
			pb, okB := core.ParsePrice(b.EstimatedPrice)
			if okA && okB && pa > 0 && pb > 0 {
				checked++
				if core.PriceWithinTolerance(a.EstimatedPrice, b.EstimatedPrice, v.config.PriceTolerance) {
					agreed++
				}
			}

			if a.Country != "" && b.Country != "" {
				checked++
				if a.Country == b.Country {
					agreed++
				}
			}
		}
	}

	if checked == 0 {
		return 0
	}
	return float64(agreed) / float64(checked)
}

// semanticScore asks the analyst for an independent verdict on every
// result pair and averages them. A failing analyst degrades validation
// to structural agreement alone.
func (v *Validator) semanticScore(ctx context.Context, results []*core.AnalysisResult) (float64, bool) {
	total, pairs := 0, 0

	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			verdict, err := v.analyst.ValidateClaims(ctx, results[i], results[j])
			if err != nil {
				v.logger.Warn("semantic validation unavailable, using agreement only", "err", err)
				return 0, false
			}
			total += core.ClampConfidence(verdict.Confidence)
			pairs++
		}
	}

	if pairs == 0 {
		return 0, false
	}
	return float64(total) / float64(pairs), true
}
