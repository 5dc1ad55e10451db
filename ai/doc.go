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


// Package ai provides abstractions for the model services used in sondeo.
//
// This package defines interfaces for the three model roles in the analysis
// cascade. It follows the dependency inversion principle, allowing the core
// domain and business logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Classifier: Fast local-model classification and price extraction
//   - Analyst: Fallback language-model analysis and semantic validation
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider) return INTERFACE types to enforce
// abstraction. Test utility constructors (mock.NewMockClassifier, etc.)
// return CONCRETE types to enable behavior injection via function fields.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	classification, err := provider.Classifier().Classify(ctx, "KYC checks at $0.50 each")
//	analysis, err := provider.Analyst().AnalyzeCommercial(ctx, pageText)
package ai
