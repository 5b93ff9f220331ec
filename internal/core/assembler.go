package core

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ResultAssembler turns detector output into the AnalysisResult handed to frontends
type ResultAssembler struct {
	supplements []SupplementalDetector
	logger      *zap.Logger
}

// NewResultAssembler creates an assembler with optional supplemental detectors
func NewResultAssembler(logger *zap.Logger, supplements ...SupplementalDetector) *ResultAssembler {
	kept := make([]SupplementalDetector, 0, len(supplements))
	for _, d := range supplements {
		if d == nil {
			continue
		}
		if d.Name() == "" || d.Name() == "accounts" {
			logger.Warn("Ignoring supplemental detector with reserved name", zap.String("name", d.Name()))
			continue
		}
		kept = append(kept, d)
	}
	return &ResultAssembler{
		supplements: kept,
		logger:      logger,
	}
}

// Assemble sorts the account labels and runs any supplemental detectors over rows
func (a *ResultAssembler) Assemble(rows []Row, accounts map[string]struct{}) *AnalysisResult {
	result := &AnalysisResult{Accounts: sortedSet(accounts)}

	for _, d := range a.supplements {
		set := make(map[string]struct{})
		if result.Sections == nil {
			result.Sections = make(map[string][]string, len(a.supplements))
		}

		if rd, ok := d.(RankedDetector); ok && rd.Ranked() {
			entries := make([]string, 0)
			for _, v := range d.Detect(rows) {
				if _, seen := set[v]; !seen {
					set[v] = struct{}{}
					entries = append(entries, v)
				}
			}
			result.Sections[d.Name()] = entries
			continue
		}

		for _, v := range d.Detect(rows) {
			set[v] = struct{}{}
		}
		result.Sections[d.Name()] = sortedSet(set)
	}

	return result
}

// Fingerprint identifies the registered supplemental detectors
func (a *ResultAssembler) Fingerprint() string {
	parts := make([]string, 0, len(a.supplements))
	for _, d := range a.supplements {
		part := d.Name()
		if fp, ok := d.(Fingerprinter); ok {
			part += "=" + fp.Fingerprint()
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ",")
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
