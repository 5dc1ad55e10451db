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


// Package confidence turns raw analysis and validation signals into the
// final confidence score and categorical label attached to stored
// records. The functions are pure: no IO, no state, same inputs same
// outputs.
package confidence

import "github.com/latforge/sondeo/core"

// Label thresholds.
const (
	altaThreshold  = 80
	mediaThreshold = 50
)

// Score blends the analyzer's confidence with the cross-validation
// outcome into one final 0-100 score and its label. Without
// cross-validation the analyzer value stands alone; with it the two are
// averaged. The result is always clamped to [0, 100].
func Score(analyzerConfidence int, cv *core.CrossValidation) (int, core.ConfidenceLabel) {
	score := core.ClampConfidence(analyzerConfidence)
	if cv != nil {
		score = core.ClampConfidence((score + core.ClampConfidence(cv.CombinedConfidence)) / 2)
	}
	return score, LabelFor(score)
}

// LabelFor maps a 0-100 confidence to its categorical label:
// alta ≥ 80, media 50-79, baja < 50.
func LabelFor(score int) core.ConfidenceLabel {
	switch {
	case score >= altaThreshold:
		return core.ConfidenceAlta
	case score >= mediaThreshold:
		return core.ConfidenceMedia
	default:
		return core.ConfidenceBaja
	}
}
