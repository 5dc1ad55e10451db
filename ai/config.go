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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// LocalHost is the base URL for the local model API used by the
	// Classifier. Example: "http://localhost:11434/v1" for a local
	// OpenAI-compatible server.
	LocalHost string

	// LocalModel is the model identifier for classification and price
	// extraction. Example: "qwen2.5:3b"
	LocalModel string

	// FallbackHost is the base URL for the fallback language-model API
	// used by the Analyst.
	FallbackHost string

	// FallbackModel is the model identifier for fallback analysis and
	// semantic cross-validation. Example: "gpt-4o-mini"
	FallbackModel string

	// FallbackToken is the API token for the fallback service. Local
	// OpenAI-compatible services that skip auth use "none".
	FallbackToken string

	// EmbeddingHost is the base URL for the embedding service API.
	EmbeddingHost string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithLocalHost sets the local model service host URL.
func WithLocalHost(host string) ConfigOption {
	return func(c *Config) {
		c.LocalHost = host
	}
}

// WithLocalModel sets the local model identifier.
func WithLocalModel(model string) ConfigOption {
	return func(c *Config) {
		c.LocalModel = model
	}
}

// WithFallbackHost sets the fallback language-model host URL.
func WithFallbackHost(host string) ConfigOption {
	return func(c *Config) {
		c.FallbackHost = host
	}
}

// WithFallbackModel sets the fallback model identifier.
func WithFallbackModel(model string) ConfigOption {
	return func(c *Config) {
		c.FallbackModel = model
	}
}

// WithFallbackToken sets the API token for the fallback service.
func WithFallbackToken(token string) ConfigOption {
	return func(c *Config) {
		c.FallbackToken = token
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithHost sets the local and embedding hosts to the same URL, the usual
// arrangement when one local inference server fronts both models.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.LocalHost = host
		c.EmbeddingHost = host
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services and an OpenAI fallback.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		LocalHost:      defaultHost,
		LocalModel:     "qwen2.5:3b",
		FallbackHost:   "https://api.openai.com/v1",
		FallbackModel:  "gpt-4o-mini",
		FallbackToken:  "none",
		EmbeddingHost:  defaultHost,
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithFallbackModel("gpt-4o"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the
// /v1 suffix to hosts if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.LocalHost = ensureV1(c.LocalHost)
	c.FallbackHost = ensureV1(c.FallbackHost)
	c.EmbeddingHost = ensureV1(c.EmbeddingHost)
}

func ensureV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete. It
// automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.LocalHost == "" {
		return errors.New("ai config: LocalHost is required")
	}
	if c.LocalModel == "" {
		return errors.New("ai config: LocalModel is required")
	}
	if c.FallbackHost == "" {
		return errors.New("ai config: FallbackHost is required")
	}
	if c.FallbackModel == "" {
		return errors.New("ai config: FallbackModel is required")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
