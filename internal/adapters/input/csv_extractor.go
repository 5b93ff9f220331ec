package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

// CSVExtractor reads inbox exports in delimited form with a header line.
type CSVExtractor struct {
	tp *utils.TextProcessor
}

// NewCSVExtractor creates a CSV extractor that decodes input with tp.
func NewCSVExtractor(tp *utils.TextProcessor) *CSVExtractor {
	return &CSVExtractor{tp: tp}
}

// Format returns the extractor name.
func (e *CSVExtractor) Format() string { return FormatCSV }

// Extract reads a CSV export and returns one Row per record after the header.
// Short records leave the trailing columns out of the row; surplus fields are
// dropped.
func (e *CSVExtractor) Extract(r io.Reader) ([]core.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.NewParseError(FormatCSV, fmt.Errorf("reading input: %w", err))
	}

	text := normalizeNewlines(e.tp.DecodeUTF8(data))
	if strings.ContainsRune(text, 0) {
		return nil, core.NewParseError(FormatCSV, errors.New("input contains NUL bytes"))
	}
	if strings.TrimSpace(text) == "" {
		return nil, core.NewParseError(FormatCSV, errors.New("input is empty"))
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, core.NewParseError(FormatCSV, fmt.Errorf("reading header: %w", err))
	}

	var rows []core.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewParseError(FormatCSV, err)
		}
		rows = append(rows, makeRow(header, rec))
	}
	return rows, nil
}

func makeRow(header, rec []string) core.Row {
	row := make(core.Row, len(header))
	for i, h := range header {
		if i >= len(rec) {
			break
		}
		row[h] = rec[i]
	}
	return row
}

// normalizeNewlines turns CRLF and lone CR line endings into LF, since
// encoding/csv only splits records on LF
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
