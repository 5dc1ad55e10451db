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


package openai

import (
	"context"
	"log/slog"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Analyst implements ai.Analyst using an OpenAI-compatible chat API. It
// targets the fallback model, which is slower and more capable than the
// local one the Classifier uses.
type Analyst struct {
	client llms.Model
	logger *slog.Logger
}

// commercialAnalysis is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type commercialAnalysis struct {
	EstimatedPrice string            `json:"estimated_price"`
	Module         string            `json:"module"`
	Conditions     map[string]string `json:"conditions"`
	Confidence     int               `json:"confidence"`
}

// semanticVerdict is the wrapper structure for the validation response.
type semanticVerdict struct {
	Confidence    int    `json:"confidence"`
	Justification string `json:"justification"`
}

// newAnalyst is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyst(config *ai.Config) (*Analyst, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.FallbackHost),
		openai.WithToken(config.FallbackToken),
		openai.WithModel(config.FallbackModel),
	)
	if err != nil {
		return nil, err
	}

	return &Analyst{
		client: client,
		logger: slog.Default().With("component", "openai-analyst"),
	}, nil
}

// NewAnalyst creates a new analyst using the provided configuration.
//
// Returns ai.Analyst interface to enforce abstraction.
func NewAnalyst(config *ai.Config) (ai.Analyst, error) {
	return newAnalyst(config)
}

// AnalyzeCommercial extracts the full set of commercial facts from vendor
// text: classification, price, conditions, and a confidence score.
func (a *Analyst) AnalyzeCommercial(ctx context.Context, text string) (*ai.CommercialAnalysis, error) {
	text = truncateText(text, maxPromptChars)

	var result commercialAnalysis
	if err := generateJSON(ctx, a.client, a.logger, buildCommercialPrompt(), text, &result); err != nil {
		return nil, err
	}

	if !ai.IsKnownModule(result.Module) {
		a.logger.Debug("model returned unknown module label", "module", result.Module)
		result.Module = "Otro"
	}
	if result.Conditions == nil {
		result.Conditions = map[string]string{}
	}

	out := &ai.CommercialAnalysis{
		EstimatedPrice: result.EstimatedPrice,
		Module:         result.Module,
		Conditions:     result.Conditions,
		Confidence:     core.ClampConfidence(result.Confidence),
	}
	a.logger.Debug("analyzed commercial text",
		"module", out.Module,
		"price", out.EstimatedPrice,
		"conditions", len(out.Conditions),
		"confidence", out.Confidence)
	return out, nil
}

// ValidateClaims asks the model whether two analysis results describe the
// same commercial fact.
func (a *Analyst) ValidateClaims(ctx context.Context, x, y *core.AnalysisResult) (*ai.SemanticValidation, error) {
	userPrompt := formatObservation("A", x) + "\n" + formatObservation("B", y)

	var result semanticVerdict
	if err := generateJSON(ctx, a.client, a.logger, buildValidationPrompt(), userPrompt, &result); err != nil {
		return nil, err
	}

	out := &ai.SemanticValidation{
		Confidence:    core.ClampConfidence(result.Confidence),
		Justification: result.Justification,
	}
	a.logger.Debug("validated claims", "confidence", out.Confidence)
	return out, nil
}
