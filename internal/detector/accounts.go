package detector

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/core"
	"github.com/mikey/inbox-account-scanner/internal/utils"
)

// AccountDetector finds candidate recurring-service accounts in inbox rows
type AccountDetector struct {
	lists  Lists
	rules  []Rule
	logger *zap.Logger
}

// NewAccountDetector creates a detector over a private copy of lists
func NewAccountDetector(lists Lists, logger *zap.Logger) *AccountDetector {
	lists = lists.clone()
	return &AccountDetector{
		lists: lists,
		rules: []Rule{
			providerRule{providers: lists.Providers},
			subjectKeywordRule{keywords: lists.Keywords()},
			senderPatternRule{patterns: lists.SenderPatterns},
		},
		logger: logger,
	}
}

// Detect returns the set of candidate account labels found in rows
func (d *AccountDetector) Detect(rows []core.Row) map[string]struct{} {
	senders := make(map[core.NormalizedSender]struct{})
	for _, row := range rows {
		email := utils.CanonicalEmail(row.Get("From", "from"))
		if email == "" {
			continue
		}
		senders[core.NormalizedSender{
			Email:        email,
			Domain:       utils.DomainOf(email),
			SubjectLower: strings.ToLower(row.Get("Subject", "subject")),
		}] = struct{}{}
	}

	candidates := make(map[string]struct{})
	for s := range senders {
		matched := false
		for _, rule := range d.rules {
			labels := rule.Labels(s)
			if len(labels) == 0 {
				continue
			}
			matched = true
			for _, l := range labels {
				candidates[l] = struct{}{}
			}
		}

		if !matched && s.Domain != "" {
			candidates[core.Label(s.Email, s.Domain)] = struct{}{}
		}
	}

	d.logger.Debug("Detected candidate accounts",
		zap.Int("rows", len(rows)),
		zap.Int("distinct_senders", len(senders)),
		zap.Int("candidates", len(candidates)))

	return candidates
}

// Lists returns a copy of the lists the detector matches against
func (d *AccountDetector) Lists() Lists {
	return d.lists.clone()
}

// Fingerprint identifies the lists the detector was built with
func (d *AccountDetector) Fingerprint() string {
	return d.lists.Fingerprint()
}
