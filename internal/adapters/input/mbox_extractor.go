package input

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"

	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

// headerKeys are the message headers copied into each row
var headerKeys = []string{"From", "Subject", "To", "Date"}

// MboxExtractor reads mbox files, or a single message without separators,
// and emits one Row per message holding its From, Subject, To and Date headers.
type MboxExtractor struct {
	tp      *utils.TextProcessor
	decoder *mime.WordDecoder
}

// NewMboxExtractor creates an mbox extractor that decodes input with tp.
func NewMboxExtractor(tp *utils.TextProcessor) *MboxExtractor {
	return &MboxExtractor{
		tp:      tp,
		decoder: new(mime.WordDecoder),
	}
}

// Format returns the extractor name.
func (e *MboxExtractor) Format() string { return FormatMbox }

// Extract splits the input into messages and reads their headers.
// Messages whose headers cannot be parsed are skipped.
func (e *MboxExtractor) Extract(r io.Reader) ([]core.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.NewParseError(FormatMbox, fmt.Errorf("reading input: %w", err))
	}

	text := e.tp.DecodeUTF8(data)
	if strings.TrimSpace(text) == "" {
		return nil, core.NewParseError(FormatMbox, errors.New("input is empty"))
	}

	var rows []core.Row
	for _, block := range splitMbox(text) {
		msg, err := mail.ReadMessage(strings.NewReader(block))
		if err != nil {
			continue
		}
		row := make(core.Row, len(headerKeys))
		for _, key := range headerKeys {
			if v := msg.Header.Get(key); v != "" {
				row[key] = e.decodeHeader(v)
			}
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, core.NewParseError(FormatMbox, errors.New("no messages found"))
	}
	return rows, nil
}

// decodeHeader expands RFC 2047 encoded words, keeping the raw value on failure
func (e *MboxExtractor) decodeHeader(v string) string {
	decoded, err := e.decoder.DecodeHeader(v)
	if err != nil {
		return v
	}
	return e.tp.SanitizeUTF8(decoded)
}

// splitMbox cuts text at "From " separator lines. Text before the first
// separator, or text with no separator at all, is a message of its own.
func splitMbox(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	var cur strings.Builder
	flush := func() {
		if block := strings.TrimLeft(cur.String(), "\n"); strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
		cur.Reset()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.HasPrefix(line, "From ") {
			flush()
			continue
		}
		cur.WriteString(line)
	}
	flush()

	return blocks
}
