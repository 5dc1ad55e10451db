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


package sondeo

import (
	"log/slog"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/ai/openai"
	"github.com/latforge/sondeo/pipeline"
	"github.com/latforge/sondeo/storage"
	"github.com/latforge/sondeo/storage/badger"
)

// Database wires the vector index and the AI services together and hands
// out processing pipelines on top of them.
type Database struct {
	repository storage.VectorRepository
	provider   ai.AIProvider
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the model endpoints used by the AI provider.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an already-built AI provider instead of creating
// one from the configuration. The database takes ownership and closes it.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens (or creates) the vector index at filePath and
// initializes the AI services.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	repository, err := badger.NewRepository(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repository.Close()
			return nil, err
		}
	}

	return &Database{
		repository: repository,
		provider:   provider,
		logger:     slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repository.Close(); err != nil {
		db.logger.Error("error closing vector repository", "err", err)
		return err
	}
	return nil
}

// VectorRepository exposes the underlying record store for direct reads,
// stats and retention cleanup.
func (db *Database) VectorRepository() storage.VectorRepository {
	return db.repository
}

// Provider exposes the AI services.
func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewPipeline builds a processing pipeline over this database.
func (db *Database) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(db.repository, db.provider, opts...)
}
