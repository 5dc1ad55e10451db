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
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/latforge/sondeo/core"
	"github.com/tmc/langchaingo/llms"
)

// errNoChoices is returned when a model responds without any choices.
var errNoChoices = fmt.Errorf("model returned no choices")

// generateJSON sends a system/user prompt pair to the model in JSON mode
// and unmarshals the response into out. Malformed JSON is retried up to
// 3 times; transport failures are reported as core.ErrModelUnavailable.
func generateJSON(ctx context.Context, client llms.Model, logger *slog.Logger, systemPrompt, userPrompt string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", core.ErrModelUnavailable, err)
		}

		if len(response.Choices) < 1 {
			logger.Debug("no choices returned from model")
			return errNoChoices
		}

		// Strip markdown code fences if present, then repair common
		// JSON issues before unmarshaling
		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		return nil
	}

	logger.Error("failed to parse model response after retries", "err", lastErr)
	return lastErr
}
