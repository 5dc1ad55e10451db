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


package core

import (
	"fmt"
	"strings"
)

// ValidateTextSample validates a TextSample before it enters the analysis
// cascade.
//
// Validation rules:
//   - Text must contain at least one non-whitespace character
//   - Source must not be empty
//
// NOT validated:
//   - CollectedAt (a zero time is filled in by the pipeline)
func ValidateTextSample(sample *TextSample) error {
	if sample == nil {
		return fmt.Errorf("%w: sample is nil", ErrEmptyText)
	}

	if strings.TrimSpace(sample.Text) == "" {
		return ErrEmptyText
	}

	if sample.Source == "" {
		return ErrEmptySource
	}

	return nil
}

// ValidateConfidence checks that a confidence value lies in [0,100].
func ValidateConfidence(confidence int) error {
	if confidence < 0 || confidence > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidConfidence, confidence)
	}
	return nil
}

// ClampConfidence bounds a confidence value to [0,100].
func ClampConfidence(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}
