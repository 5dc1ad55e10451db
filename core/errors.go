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

import "errors"

// Domain errors shared across the pipeline.
var (
	// ErrEmptyText indicates a TextSample with no text content. This is
	// the only failure that aborts an item before the analysis cascade.
	ErrEmptyText = errors.New("text sample is empty")

	// ErrEmptySource indicates a TextSample without a source identifier.
	ErrEmptySource = errors.New("text sample has no source")

	// ErrModelUnavailable indicates a stage's backing model service is
	// unreachable or disabled. Inside the cascade it triggers fallthrough
	// to the next stage rather than propagating to the caller.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrItemTimeout marks a batch item whose per-item deadline expired.
	// Sibling items are unaffected.
	ErrItemTimeout = errors.New("analysis item timed out")

	// ErrInvalidConfidence indicates a confidence value outside [0,100].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 100")

	// ErrInsufficientResults indicates cross-validation was invoked with
	// fewer than two results.
	ErrInsufficientResults = errors.New("cross-validation requires at least two results")
)
