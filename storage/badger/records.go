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


package badger

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/latforge/sondeo/core"
	"github.com/latforge/sondeo/storage"
)

// Repository implements storage.VectorRepository for BadgerDB.
type Repository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*Repository)(nil)

// NewRepository opens a BadgerDB-backed vector repository at path.
//
// Returns storage.VectorRepository interface to enforce abstraction.
func NewRepository(path string) (storage.VectorRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newRepository(backend), nil
}

// newRepository is an internal constructor that returns the concrete type.
func newRepository(backend *Backend) *Repository {
	return &Repository{backend: backend}
}

// Close closes the underlying backend.
func (r *Repository) Close() error {
	return r.backend.Close()
}

// WithTransaction delegates to the backend.
func (r *Repository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Upsert stores a record keyed by its fingerprint. Re-storing an existing
// fingerprint overwrites the previous value.
func (r *Repository) Upsert(ctx context.Context, record *core.VectorRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVectorRecordKey(record.ID)
		value := storage.MarshalVectorRecord(record)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a single record by fingerprint.
func (r *Repository) Get(ctx context.Context, id core.Fingerprint) (*core.VectorRecord, error) {
	var result *core.VectorRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readVectorRecord(tx, makeVectorRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Delete removes records by their fingerprints.
func (r *Repository) Delete(ctx context.Context, ids ...core.Fingerprint) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeVectorRecordKey(id)

			record, err := readVectorRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar scans all records, applies the metadata filters, and ranks
// the survivors by cosine similarity (dot product over normalized
// vectors). Equal scores are broken by the more recently collected
// record.
func (r *Repository) FindSimilar(ctx context.Context, vector []float32, filters map[string]string, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.SearchResult

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scan(tx, func(record *core.VectorRecord) error {
			if len(record.Vector) == 0 {
				return nil
			}
			if !matchesFilters(record, filters) {
				return nil
			}

			similarity := dotProduct(vector, record.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Record: record,
					Score:  similarity,
				})
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending; ties go to the fresher record
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Record.Metadata.CollectedAt.After(b.Record.Metadata.CollectedAt) {
			return -1
		}
		if a.Record.Metadata.CollectedAt.Before(b.Record.Metadata.CollectedAt) {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Stats recomputes index statistics with a full scan.
func (r *Repository) Stats(ctx context.Context) (*core.IndexStats, error) {
	stats := &core.IndexStats{
		ByCountry: make(map[string]int),
		ByModule:  make(map[string]int),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scan(tx, func(record *core.VectorRecord) error {
			stats.Total++
			if record.Metadata.Country != "" {
				stats.ByCountry[record.Metadata.Country]++
			}
			if record.Metadata.Module != "" {
				stats.ByModule[record.Metadata.Module]++
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Cleanup removes records violating the retention policy and returns how
// many were deleted. Zero policy fields disable their criterion.
func (r *Repository) Cleanup(ctx context.Context, policy core.RetentionPolicy) (int, error) {
	var expired []core.Fingerprint
	cutoff := time.Time{}
	if policy.MaxAge > 0 {
		cutoff = time.Now().UTC().Add(-policy.MaxAge)
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scan(tx, func(record *core.VectorRecord) error {
			if policy.MaxAge > 0 && record.Metadata.CollectedAt.Before(cutoff) {
				expired = append(expired, record.ID)
				return nil
			}
			if policy.MinConfidence > 0 && record.Metadata.Confidence < policy.MinConfidence {
				expired = append(expired, record.ID)
			}
			return nil
		})
	}, false)
	if err != nil {
		return 0, err
	}

	if len(expired) == 0 {
		return 0, nil
	}
	if err := r.Delete(ctx, expired...); err != nil {
		return 0, err
	}

	r.backend.logger.Info("retention cleanup complete", "removed", len(expired))
	return len(expired), nil
}

// scan iterates all vector records in the transaction, invoking fn for
// each deserialized record.
func (r *Repository) scan(tx *badger.Txn, fn func(*core.VectorRecord) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(vectorRecordPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var record *core.VectorRecord
		err := iter.Item().Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalVectorRecord(val)
			return err
		})
		if err != nil {
			return err
		}
		if record == nil {
			continue
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// readVectorRecord reads one record from the transaction. A missing key
// yields a nil record, not an error.
func readVectorRecord(tx *badger.Txn, key []byte) (*core.VectorRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.VectorRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalVectorRecord(val)
		return unmarshalErr
	})
	return record, err
}

// matchesFilters applies exact-match metadata predicates to a record.
// Unknown filter keys never match.
func matchesFilters(record *core.VectorRecord, filters map[string]string) bool {
	for key, want := range filters {
		var got string
		switch key {
		case "provider":
			got = record.Metadata.Provider
		case "country":
			got = record.Metadata.Country
		case "region":
			got = record.Metadata.Region
		case "currency":
			got = record.Metadata.Currency
		case "module":
			got = record.Metadata.Module
		case "source_type":
			got = record.Metadata.SourceType
		case "validated":
			got = strconv.FormatBool(record.Metadata.Validated)
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
