package detector

import (
	"strings"

	"github.com/mikey/inbox-account-scanner/internal/core"
)

// Rule maps a normalized sender to zero or more candidate labels.
// Rules are independent; a nil result means the rule did not fire.
type Rule interface {
	Name() string
	Labels(s core.NormalizedSender) []string
}

// providerRule fires once per known provider name found in the address,
// domain or subject, labelling the account with the provider name.
type providerRule struct {
	providers []string
}

func (r providerRule) Name() string { return "provider" }

func (r providerRule) Labels(s core.NormalizedSender) []string {
	var labels []string
	for _, p := range r.providers {
		if strings.Contains(s.Email, p) || strings.Contains(s.Domain, p) || strings.Contains(s.SubjectLower, p) {
			labels = append(labels, core.Label(p, s.Domain))
		}
	}
	return labels
}

// subjectKeywordRule labels the sender address when the subject carries a
// subscription or financial keyword. The label does not depend on which
// keyword matched.
type subjectKeywordRule struct {
	keywords []string
}

func (r subjectKeywordRule) Name() string { return "subject_keyword" }

func (r subjectKeywordRule) Labels(s core.NormalizedSender) []string {
	var labels []string
	for _, k := range r.keywords {
		if strings.Contains(s.SubjectLower, k) {
			labels = append(labels, core.Label(s.Email, s.Domain))
		}
	}
	return labels
}

// senderPatternRule labels addresses whose local part looks like an
// automated billing sender. Patterns are matched anywhere in the address.
type senderPatternRule struct {
	patterns []string
}

func (r senderPatternRule) Name() string { return "sender_pattern" }

func (r senderPatternRule) Labels(s core.NormalizedSender) []string {
	for _, p := range r.patterns {
		if strings.Contains(s.Email, p) {
			return []string{core.Label(s.Email, s.Domain)}
		}
	}
	return nil
}
