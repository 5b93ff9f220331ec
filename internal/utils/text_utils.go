package utils

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextProcessor provides utilities for decoding uploaded text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// DecodeUTF8 decodes raw upload bytes as UTF-8 text. A byte order mark is
// honoured and stripped, and byte sequences that are not valid UTF-8 are
// dropped. Valid U+FFFD characters are kept. Decoding never fails.
func (tp *TextProcessor) DecodeUTF8(data []byte) string {
	raw := bytes.TrimPrefix(data, utf8BOM)

	// UTF-16 input is converted when it carries a BOM; anything else passes
	// through untouched so invalid bytes can be dropped below.
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		tp.logger.Debug("Falling back to raw bytes after BOM decoding failed", zap.Error(err))
		decoded = raw
	}

	out := strings.ToValidUTF8(string(decoded), "")
	if len(out) != len(data) {
		tp.logger.Debug("Text sanitized",
			zap.Int("original_size", len(data)),
			zap.Int("sanitized_size", len(out)))
	}

	return out
}

// SanitizeUTF8 drops invalid UTF-8 sequences from an already decoded string
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, "")
}
