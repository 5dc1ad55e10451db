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

// Classifier implements ai.Classifier using an OpenAI-compatible chat API
// backed by a locally hosted model.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

// classification is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type classification struct {
	Module     string `json:"module"`
	Confidence int    `json:"confidence"`
}

// priceResult is the wrapper structure for the price extraction response.
type priceResult struct {
	Price      string `json:"price"`
	Confidence int    `json:"confidence"`
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for the local model
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.LocalHost),
		openai.WithToken("none"),
		openai.WithModel(config.LocalModel),
	)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new classifier using the provided configuration.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// Classify assigns a module taxonomy entry to the text.
// An unrecognized label from the model is folded into "Otro".
func (c *Classifier) Classify(ctx context.Context, text string) (ai.Classification, error) {
	text = truncateText(text, maxPromptChars)

	var result classification
	if err := generateJSON(ctx, c.client, c.logger, buildClassificationPrompt(), text, &result); err != nil {
		return ai.Classification{}, err
	}

	if !ai.IsKnownModule(result.Module) {
		c.logger.Debug("model returned unknown module label", "module", result.Module)
		result.Module = "Otro"
	}

	out := ai.Classification{
		Module:     result.Module,
		Confidence: core.ClampConfidence(result.Confidence),
	}
	c.logger.Debug("classified text", "module", out.Module, "confidence", out.Confidence)
	return out, nil
}

// ExtractPrice pulls the most plausible price from the text. A missing
// price is a zero-value result, not an error.
func (c *Classifier) ExtractPrice(ctx context.Context, text string) (ai.PriceEstimate, error) {
	text = truncateText(text, maxPromptChars)

	var result priceResult
	if err := generateJSON(ctx, c.client, c.logger, buildPricePrompt(), text, &result); err != nil {
		return ai.PriceEstimate{}, err
	}

	out := ai.PriceEstimate{
		Value:      result.Price,
		Confidence: core.ClampConfidence(result.Confidence),
	}
	if out.Value == "" {
		out.Confidence = 0
	}
	c.logger.Debug("extracted price", "price", out.Value, "confidence", out.Confidence)
	return out, nil
}
