package ports

import (
	"context"
	"io"

	"github.com/mikey/inbox-account-scanner/internal/core"
)

// Frontend defines the interface for surfaces that accept inbox exports
type Frontend interface {
	// Scan analyzes one inbox export in the given format
	Scan(ctx context.Context, format string, r io.Reader) (*core.AnalysisResult, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
