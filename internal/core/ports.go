package core

import (
	"context"
	"io"
)

// RowExtractor turns an uploaded inbox export into rows
type RowExtractor interface {
	// Extract reads the whole input and returns its rows in order
	Extract(r io.Reader) ([]Row, error)

	// Format returns the format name the extractor handles
	Format() string
}

// ExtractorSource resolves extractors by format name
type ExtractorSource interface {
	Get(format string) RowExtractor
}

// AccountDetector produces the set of candidate account labels for a row sequence
type AccountDetector interface {
	Detect(rows []Row) map[string]struct{}
}

// SupplementalDetector contributes an extra named section to an analysis result
type SupplementalDetector interface {
	Name() string
	Detect(rows []Row) []string
}

// RankedDetector is a SupplementalDetector whose output order carries
// meaning. The assembler keeps the order and only removes duplicates.
type RankedDetector interface {
	SupplementalDetector
	Ranked() bool
}

// Fingerprinter reports a stable digest of the configuration that shapes
// analysis results, so cached results are not reused across config changes
type Fingerprinter interface {
	Fingerprint() string
}

// SenderFilter decides whether a row's sender should be left out of detection
type SenderFilter interface {
	IsIgnored(from string) bool
}

// CacheRepository defines the interface for caching analysis results
type CacheRepository interface {
	// Get retrieves a cached entry for an input digest
	Get(ctx context.Context, digest string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, digest string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
