package input

import (
	"path/filepath"
	"strings"

	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

const (
	// FormatCSV is a delimited export with a header line
	FormatCSV = "csv"
	// FormatMbox is an mbox file or a single RFC 5322 message
	FormatMbox = "mbox"
)

// Registry holds row extractors by format name.
type Registry struct {
	extractors map[string]core.RowExtractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]core.RowExtractor)}
}

// Register adds an extractor. Panics on duplicate format.
func (r *Registry) Register(e core.RowExtractor) {
	key := strings.ToLower(e.Format())
	if _, ok := r.extractors[key]; ok {
		panic("duplicate extractor format: " + key)
	}
	r.extractors[key] = e
}

// Get returns the extractor for format, or nil. An empty format means CSV.
func (r *Registry) Get(format string) core.RowExtractor {
	if format == "" {
		format = FormatCSV
	}
	return r.extractors[strings.ToLower(format)]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.extractors))
	for k := range r.extractors {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry(tp *utils.TextProcessor) *Registry {
	r := NewRegistry()
	r.Register(NewCSVExtractor(tp))
	r.Register(NewMboxExtractor(tp))
	return r
}

// FormatForFilename guesses the input format from a file name.
func FormatForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mbox", ".eml", ".txt":
		return FormatMbox
	default:
		return FormatCSV
	}
}
