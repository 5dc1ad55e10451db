package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a stable identifier derived from normalized text content
// and its source. Identical content from the same source always produces
// the same fingerprint, which makes cache lookups and vector upserts
// idempotent.
type Fingerprint string

// FingerprintFor computes the fingerprint for a text/source pair using
// BLAKE2b hashing over the normalized text.
func FingerprintFor(text, source string) Fingerprint {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(NormalizeText(text)))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// AnalysisMethod identifies which stage of the analysis cascade produced
// a result.
type AnalysisMethod int

const (
	// MethodLocal means the local model stage produced the result.
	MethodLocal AnalysisMethod = iota + 1
	// MethodFallback means the fallback language model produced the result.
	MethodFallback
	// MethodHeuristic means pattern-based extraction produced the result.
	MethodHeuristic
	// MethodFailed means every stage failed.
	MethodFailed
)

// String returns the method name as stored in record metadata.
func (m AnalysisMethod) String() string {
	switch m {
	case MethodLocal:
		return "local"
	case MethodFallback:
		return "fallback"
	case MethodHeuristic:
		return "heuristic"
	case MethodFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TextSample is a single unit of scraped vendor text awaiting analysis.
// Samples are transient: they are produced by the fetch layer and
// discarded once analyzed.
type TextSample struct {
	Text        string
	Source      string
	Provider    string // vendor name the fetch layer scraped, e.g. "Sumsub"
	SourceType  string // channel the text came from, e.g. "web", "pdf"
	CollectedAt time.Time
}

// Fingerprint returns the sample's cache/storage key.
func (s *TextSample) Fingerprint() Fingerprint {
	return FingerprintFor(s.Text, s.Source)
}

// AnalysisResult is the structured commercial fact extracted from a
// TextSample. Results are created by the cascading analyzer and read-only
// afterward.
type AnalysisResult struct {
	Classification string            // Module taxonomy entry (e.g. "KYC/KYB")
	EstimatedPrice string            // Normalized price string, or "" if none found
	Conditions     map[string]string // Commercial conditions (setup_fee, monthly_cost, ...)
	Confidence     int               // 0-100
	Method         AnalysisMethod
	Country        string // detected market country, or "" if none
	Currency       string // detected ISO currency code, or "" if none
	Source         string
	Fingerprint    Fingerprint
}

// CrossValidation is the outcome of reconciling two or more independent
// observations of the same (provider, module, market) fact.
type CrossValidation struct {
	CombinedConfidence int     // 0-100
	Validated          bool    // combined confidence and source count both passed
	AgreementRatio     float64 // 0.0-1.0, share of agreeing pairwise flags
	Sources            int     // number of distinct independent sources
}

// ConfidenceLabel is the categorical confidence bucket attached to stored
// records. The Spanish labels are kept as the wire values downstream
// reporting expects.
type ConfidenceLabel string

const (
	ConfidenceAlta  ConfidenceLabel = "alta"
	ConfidenceMedia ConfidenceLabel = "media"
	ConfidenceBaja  ConfidenceLabel = "baja"
)

// Metadata is the searchable attribute set attached to a VectorRecord.
type Metadata struct {
	Provider    string
	Country     string
	Region      string
	Currency    string
	Module      string
	Price       string
	Confidence  int
	Validated   bool
	SourceURL   string
	SourceType  string
	CollectedAt time.Time
}

// VectorRecord is an embedding plus metadata pair persisted in the vector
// index. Upsert by ID is idempotent: re-storing the same fingerprint
// overwrites rather than duplicates.
type VectorRecord struct {
	ID       Fingerprint
	Vector   []float32
	Metadata Metadata
	RawText  string
}

// SearchResult pairs a stored record with its similarity score for a query.
type SearchResult struct {
	Record *VectorRecord
	Score  float32
}

// IndexStats summarizes the vector index contents. Counts are recomputed
// on demand by a full scan rather than maintained incrementally.
type IndexStats struct {
	Total     int
	ByCountry map[string]int
	ByModule  map[string]int
}

// RetentionPolicy selects records for out-of-band cleanup. Zero values
// disable the corresponding criterion.
type RetentionPolicy struct {
	MaxAge        time.Duration // remove records older than this
	MinConfidence int           // remove records below this confidence
}
