package detector

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Lists holds the fixed lookup data the account rules match against.
// All entries are expected in lower case.
type Lists struct {
	Providers            []string
	SubscriptionKeywords []string
	FinancialKeywords    []string
	SenderPatterns       []string
}

// DefaultLists returns the built-in provider, keyword and sender pattern lists
func DefaultLists() Lists {
	return Lists{
		// "paypal" appears twice; labels are collected into a set so it is harmless.
		Providers: []string{
			"paypal", "chase", "bankofamerica", "bofa", "wellsfargo", "citibank",
			"amazon", "netflix", "spotify", "apple", "google", "paypal",
			"venmo", "stripe", "uber", "lyft", "verizon", "comcast", "att",
			"xero", "quickbooks", "intuit",
		},
		SubscriptionKeywords: []string{"subscription", "subscribe", "renewal", "membership", "receipt"},
		FinancialKeywords:    []string{"invoice", "payment", "billing", "statement", "charge"},
		SenderPatterns:       []string{"billing@", "invoice@", "receipt@", "noreply@", "no-reply@"},
	}
}

// Keywords returns the subscription keywords followed by the financial ones
func (l Lists) Keywords() []string {
	out := make([]string, 0, len(l.SubscriptionKeywords)+len(l.FinancialKeywords))
	out = append(out, l.SubscriptionKeywords...)
	return append(out, l.FinancialKeywords...)
}

func (l Lists) clone() Lists {
	return Lists{
		Providers:            append([]string(nil), l.Providers...),
		SubscriptionKeywords: append([]string(nil), l.SubscriptionKeywords...),
		FinancialKeywords:    append([]string(nil), l.FinancialKeywords...),
		SenderPatterns:       append([]string(nil), l.SenderPatterns...),
	}
}

// Fingerprint returns a short digest of the list contents and their order
func (l Lists) Fingerprint() string {
	h := sha256.New()
	for _, list := range [][]string{l.Providers, l.SubscriptionKeywords, l.FinancialKeywords, l.SenderPatterns} {
		h.Write([]byte(strings.Join(list, "\x1f")))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
