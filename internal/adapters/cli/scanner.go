package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/core"
)

// Scanner implements a command-line frontend that prints detected accounts
type Scanner struct {
	service *core.AnalysisService
	logger  *zap.Logger
	out     io.Writer
	asJSON  bool
}

// NewScanner creates a new CLI scanner writing to out
func NewScanner(service *core.AnalysisService, logger *zap.Logger, out io.Writer, asJSON bool) *Scanner {
	return &Scanner{
		service: service,
		logger:  logger,
		out:     out,
		asJSON:  asJSON,
	}
}

// Scan analyzes an inbox export and prints the result
func (s *Scanner) Scan(ctx context.Context, format string, r io.Reader) (*core.AnalysisResult, error) {
	s.logger.Debug("Scanning inbox export", zap.String("format", format))

	startTime := time.Now()
	result, err := s.service.Analyze(ctx, format, r)
	if err != nil {
		s.logger.Error("Failed to analyze inbox export", zap.Error(err))
		return nil, err
	}
	s.logger.Debug("Scan complete", zap.Duration("duration", time.Since(startTime)))

	if err := s.Print(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Print writes the result as JSON or as one account per line followed by
// any supplemental sections
func (s *Scanner) Print(result *core.AnalysisResult) error {
	if s.asJSON {
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}

	for _, account := range result.Accounts {
		if _, err := fmt.Fprintln(s.out, account); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	names := make([]string, 0, len(result.Sections))
	for name := range result.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(s.out, "\n[%s]\n", name); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		for _, entry := range result.Sections[name] {
			if _, err := fmt.Fprintln(s.out, entry); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
	}
	return nil
}

// Start is a no-op for the CLI scanner
func (s *Scanner) Start() error {
	return nil
}

// Stop is a no-op for the CLI scanner
func (s *Scanner) Stop() error {
	return nil
}
