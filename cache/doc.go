// Package cache provides an in-memory TTL cache for analysis results.
//
// Results are keyed by the fingerprint of the analyzed text, so repeated
// submissions of the same vendor text skip the model cascade entirely
// until the entry expires. GetOrCompute coalesces concurrent misses for
// one fingerprint into a single upstream analysis.
package cache
