package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AnalysisService is the core service for scanning inbox exports
type AnalysisService struct {
	extractors   ExtractorSource
	detector     AccountDetector
	assembler    *ResultAssembler
	filter       SenderFilter
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	configPrint  string
	inflight     singleflight.Group
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	extractors ExtractorSource,
	detector AccountDetector,
	assembler *ResultAssembler,
	filter SenderFilter,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *AnalysisService {
	return &AnalysisService{
		extractors:   extractors,
		detector:     detector,
		assembler:    assembler,
		filter:       filter,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
		configPrint:  configFingerprint(detector, filter, assembler),
	}
}

// Analyze reads an inbox export in the given format and returns the detected accounts
func (s *AnalysisService) Analyze(ctx context.Context, format string, r io.Reader) (*AnalysisResult, error) {
	if r == nil {
		return nil, ErrMissingInput
	}

	extractor := s.extractors.Get(format)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewParseError(extractor.Format(), fmt.Errorf("failed to read input: %w", err))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest := inputDigest(extractor.Format(), s.configPrint, data)

	// Check cache if enabled
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, digest); err == nil {
			s.logger.Debug("Cache hit for input", zap.String("digest", digest))
			return entry.Result, nil
		}
	}

	v, err, shared := s.inflight.Do(digest, func() (any, error) {
		rows, err := extractor.Extract(bytes.NewReader(data))
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				err = NewParseError(extractor.Format(), err)
			}
			return nil, err
		}

		result := s.AnalyzeRows(rows)
		s.logger.Info("Analyzed inbox export",
			zap.String("format", extractor.Format()),
			zap.Int("rows", len(rows)),
			zap.Int("accounts", len(result.Accounts)))

		// Update cache with result if enabled
		if s.cacheEnabled {
			now := time.Now()
			entry := &CacheEntry{
				Digest:    digest,
				Result:    result,
				CreatedAt: now,
				ExpiresAt: now.Add(s.cacheTTL),
			}
			if err := s.cache.Set(context.WithoutCancel(ctx), entry); err != nil {
				s.logger.Error("Failed to update cache", zap.Error(err))
			}
		}

		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Shared in-flight analysis", zap.String("digest", digest))
	}

	return v.(*AnalysisResult), nil
}

// AnalyzeRows runs detection and assembly over already extracted rows
func (s *AnalysisService) AnalyzeRows(rows []Row) *AnalysisResult {
	if s.filter != nil {
		kept := make([]Row, 0, len(rows))
		for _, row := range rows {
			if s.filter.IsIgnored(row.Get("From", "from")) {
				continue
			}
			kept = append(kept, row)
		}
		if skipped := len(rows) - len(kept); skipped > 0 {
			s.logger.Debug("Skipped rows from ignored senders", zap.Int("skipped", skipped))
		}
		rows = kept
	}

	return s.assembler.Assemble(rows, s.detector.Detect(rows))
}

// configFingerprint combines the fingerprints of every collaborator that
// shapes the result. Collaborators without one contribute nothing.
func configFingerprint(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if fp, ok := p.(Fingerprinter); ok {
			fmt.Fprintf(&b, "%d:%s;", i, fp.Fingerprint())
		}
	}
	return b.String()
}

// inputDigest keys the cache on the format, the configuration fingerprint
// and the input bytes
func inputDigest(format, configPrint string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(configPrint))
	h.Write([]byte{0})
	h.Write(data)
	return format + ":" + hex.EncodeToString(h.Sum(nil))
}
