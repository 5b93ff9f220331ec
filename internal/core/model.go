package core

import (
	"fmt"
	"time"
)

// Row is a single record of an inbox export, keyed by column header
type Row map[string]string

// Get returns the first non-empty value among the given keys
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// NormalizedSender is the detector's view of one row
type NormalizedSender struct {
	Email        string
	Domain       string
	SubjectLower string
}

// Label formats a candidate account label as "<identifier> <domain>"
func Label(identifier, domain string) string {
	return fmt.Sprintf("%s <%s>", identifier, domain)
}

// AnalysisResult represents the outcome of scanning one inbox export
type AnalysisResult struct {
	Accounts []string            `json:"accounts"`
	Sections map[string][]string `json:"sections,omitempty"`
}

// CacheEntry is a stored analysis result for a given input digest
type CacheEntry struct {
	Digest    string
	Result    *AnalysisResult
	CreatedAt time.Time
	ExpiresAt time.Time
}
