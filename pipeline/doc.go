// Package pipeline orchestrates the end-to-end processing of scraped
// vendor pricing text: fingerprint caching, the cascading analysis of
// each sample, cross-validation against comparable prior records,
// confidence scoring, and persistence into the vector index.
//
// This package supports concurrent batch processing with per-item
// isolation, retry logic with exponential backoff for storage writes,
// and vector normalization to ensure compatibility with cosine
// similarity search.
package pipeline
