package storage

import (
	"context"

	"github.com/latforge/sondeo/core"
)

// VectorRepository provides operations for the vendor pricing vector index.
// Implementations must be thread-safe and support concurrent access.
type VectorRepository interface {
	// Upsert stores a record keyed by its fingerprint ID. Storing an ID
	// that already exists overwrites the previous record; the operation
	// is idempotent and never duplicates.
	Upsert(ctx context.Context, record *core.VectorRecord) error

	// Get retrieves a single record by fingerprint.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id core.Fingerprint) (*core.VectorRecord, error)

	// Delete removes records by their fingerprints.
	// Returns ErrNotFound if any record doesn't exist.
	Delete(ctx context.Context, ids ...core.Fingerprint) error

	// FindSimilar finds records similar to the given vector. Filters are
	// exact-match predicates over metadata fields (provider, country,
	// region, currency, module, source_type, validated) applied during
	// the scan. Returns records with similarity >= minSimilarity, up to
	// limit results, ordered by similarity descending; equal scores are
	// broken by most recent CollectedAt.
	FindSimilar(ctx context.Context, vector []float32, filters map[string]string, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Stats recomputes index statistics with a full scan: total record
	// count plus per-country and per-module breakdowns.
	Stats(ctx context.Context) (*core.IndexStats, error)

	// Cleanup removes records that violate the retention policy and
	// returns how many were deleted.
	Cleanup(ctx context.Context, policy core.RetentionPolicy) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
