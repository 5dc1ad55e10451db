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


// Package analyzer implements the cascading analysis of vendor pricing text.
//
// Analysis proceeds through three stages: a fast local model, a more
// capable fallback model, and finally pure pattern heuristics. A stage's
// result is accepted when its confidence clears that stage's threshold;
// otherwise the cascade falls through, keeping the best rejected result
// as a floor. The heuristic stage always produces a result, so a
// well-formed sample always gets an answer — a degraded model landscape
// lowers the analysis method, it does not surface as an error.
//
// AnalyzeBatch runs many samples concurrently over a bounded worker pool
// with per-sample timeouts, returning outcomes in input order.
package analyzer
