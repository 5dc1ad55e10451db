package pipeline

import "errors"

var (
	// ErrRepositoryRequired is returned when NewPipeline is called without
	// a vector repository.
	ErrRepositoryRequired = errors.New("vector repository is required")

	// ErrProviderRequired is returned when NewPipeline is called without
	// an AI provider.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmptyQuery is returned by Search when the query text is blank.
	ErrEmptyQuery = errors.New("search query is empty")
)
