package detector

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/mikey/inbox-account-scanner/internal/core"
)

// SignalsSection is the result section the signal report is published under
const SignalsSection = "domain_signals"

// Signal names a kind of account activity recognised in a subject line
type Signal string

const (
	SignalAuthSecurity   Signal = "auth_security"
	SignalBillingFinance Signal = "billing_finance"
	SignalSubscription   Signal = "subscription"
	SignalLoyaltyRewards Signal = "loyalty_rewards"
	SignalHostingCloud   Signal = "domains_hosting_cloud"
)

type signalRule struct {
	signal  Signal
	weight  int
	pattern *regexp.Regexp
}

// signalRules are checked in this order; the order is also the order
// signals are reported in
var signalRules = []signalRule{
	{SignalAuthSecurity, 5, regexp.MustCompile(`(?i)\b(verify|verification|confirm|activate|welcome|password\s*reset|reset\s*your\s*password|one[-\s]?time\s*pass|otp\b|2[-\s]?step|two[-\s]?factor|mfa\b|security\s*alert|new\s*sign[-\s]?in|login\s*attempt|suspicious)\b`)},
	{SignalBillingFinance, 4, regexp.MustCompile(`(?i)\b(receipt|invoice|statement|payment|charged|billing|bill\b|refund|transaction|purchase|order\s*(confirmed|confirmation)|your\s*order)\b`)},
	{SignalSubscription, 3, regexp.MustCompile(`(?i)\b(subscription|renewal|renewed|trial|membership|plan\b|auto[-\s]?renew|recurring|cancel(l)?ed|cancellation)\b`)},
	{SignalLoyaltyRewards, 2, regexp.MustCompile(`(?i)\b(points|miles|rewards|loyalty|member\b|status\b|tier\b)\b`)},
	{SignalHostingCloud, 2, regexp.MustCompile(`(?i)\b(domain|dns|hosting|ssl|certificate|server|cloud|backup|storage|workspace)\b`)},
}

var addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+`)

var defaultBrands = map[string]string{
	"paypal.com":    "PayPal",
	"amazon.com":    "Amazon",
	"netflix.com":   "Netflix",
	"spotify.com":   "Spotify",
	"microsoft.com": "Microsoft",
	"google.com":    "Google",
	"apple.com":     "Apple",
	"facebook.com":  "Facebook",
	"twitter.com":   "Twitter",
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "01/02/2006"}

const maxExampleSubjects = 5

// DomainSignals summarises the messages received from one base domain
type DomainSignals struct {
	BaseDomain      string
	Brand           string
	Messages        int
	TotalScore      int
	FirstSeen       time.Time
	LastSeen        time.Time
	Signals         []Signal
	ExampleSubjects []string
}

// String renders the summary as a single report line
func (s DomainSignals) String() string {
	signals := "none"
	if len(s.Signals) > 0 {
		names := make([]string, len(s.Signals))
		for i, sig := range s.Signals {
			names[i] = string(sig)
		}
		signals = strings.Join(names, ",")
	}

	subjects := make([]string, len(s.ExampleSubjects))
	for i, subj := range s.ExampleSubjects {
		subjects[i] = fmt.Sprintf("%q", subj)
	}

	return fmt.Sprintf("%s score=%d messages=%d signals=%s first_seen=%s last_seen=%s subjects=%s",
		core.Label(s.Brand, s.BaseDomain), s.TotalScore, s.Messages, signals,
		formatDay(s.FirstSeen), formatDay(s.LastSeen), strings.Join(subjects, ", "))
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

// SignalDetector groups messages by sender base domain and scores each group
// on the account signals found in its subjects
type SignalDetector struct {
	brands map[string]string
	logger *zap.Logger
}

// NewSignalDetector creates a signal detector with the built-in brand names
func NewSignalDetector(logger *zap.Logger) *SignalDetector {
	return &SignalDetector{
		brands: defaultBrands,
		logger: logger,
	}
}

// Name returns the result section name
func (d *SignalDetector) Name() string { return SignalsSection }

// Ranked reports that entries are ordered by score
func (d *SignalDetector) Ranked() bool { return true }

// Detect returns one report line per base domain, highest score first
func (d *SignalDetector) Detect(rows []core.Row) []string {
	summaries := d.Aggregate(rows)
	out := make([]string, len(summaries))
	for i, s := range summaries {
		out[i] = s.String()
	}
	return out
}

type domainGroup struct {
	summary  DomainSignals
	seen     map[string]struct{}
	subjects map[string]struct{}
	signals  map[Signal]bool
}

// Aggregate groups rows by the base domain of their senders, falling back to
// recipients when no sender address is present. Groups are ordered by total
// score, then by message count, then by first appearance.
func (d *SignalDetector) Aggregate(rows []core.Row) []DomainSignals {
	groups := make(map[string]*domainGroup)
	var order []string

	for _, row := range rows {
		from := row.Get("From", "from")
		to := row.Get("To", "to")
		subject := row.Get("Subject", "subject")
		date := row.Get("Date", "date")

		domains := extractDomains(from)
		if len(domains) == 0 {
			domains = extractDomains(to)
		}
		if len(domains) == 0 {
			continue
		}

		signals, score := scoreSubject(subject)
		when, dated := parseDate(date)
		messageKey := strings.Join([]string{from, to, date, subject}, "\x00")

		for _, domain := range domains {
			base := BaseDomain(domain)
			if base == "" || strings.Contains(base, "localhost") {
				continue
			}

			g, ok := groups[base]
			if !ok {
				brand := d.brands[base]
				if brand == "" {
					brand = base
				}
				g = &domainGroup{
					summary:  DomainSignals{BaseDomain: base, Brand: brand},
					seen:     make(map[string]struct{}),
					subjects: make(map[string]struct{}),
					signals:  make(map[Signal]bool),
				}
				groups[base] = g
				order = append(order, base)
			}

			g.seen[messageKey] = struct{}{}
			g.summary.TotalScore += score
			for _, sig := range signals {
				g.signals[sig] = true
			}
			if dated {
				if g.summary.FirstSeen.IsZero() || when.Before(g.summary.FirstSeen) {
					g.summary.FirstSeen = when
				}
				if when.After(g.summary.LastSeen) {
					g.summary.LastSeen = when
				}
			}
			if subject != "" && len(g.summary.ExampleSubjects) < maxExampleSubjects {
				if _, dup := g.subjects[subject]; !dup {
					g.subjects[subject] = struct{}{}
					g.summary.ExampleSubjects = append(g.summary.ExampleSubjects, subject)
				}
			}
		}
	}

	out := make([]DomainSignals, 0, len(order))
	for _, base := range order {
		g := groups[base]
		g.summary.Messages = len(g.seen)
		for _, rule := range signalRules {
			if g.signals[rule.signal] {
				g.summary.Signals = append(g.summary.Signals, rule.signal)
			}
		}
		out = append(out, g.summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].Messages > out[j].Messages
	})

	d.logger.Debug("Aggregated domain signals",
		zap.Int("rows", len(rows)),
		zap.Int("domains", len(out)))

	return out
}

// scoreSubject returns the signals found in subject and their summed weight
func scoreSubject(subject string) ([]Signal, int) {
	var signals []Signal
	score := 0
	for _, rule := range signalRules {
		if rule.pattern.MatchString(subject) {
			signals = append(signals, rule.signal)
			score += rule.weight
		}
	}
	return signals, score
}

// extractDomains returns the sorted, distinct domains of every address in a header value
func extractDomains(header string) []string {
	set := make(map[string]struct{})
	for _, addr := range addressPattern.FindAllString(strings.ToLower(header), -1) {
		_, domain, _ := strings.Cut(addr, "@")
		if domain = strings.Trim(domain, ".-"); domain != "" {
			set[domain] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for domain := range set {
		out = append(out, domain)
	}
	sort.Strings(out)
	return out
}

// BaseDomain reduces a host name to its registrable domain (eTLD+1), so
// mail.example.co.uk and example.co.uk group together. Names the public
// suffix list cannot reduce are returned lower-cased as they are.
func BaseDomain(domain string) string {
	d := strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
	if !strings.Contains(d, ".") {
		return d
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(d)
	if err != nil {
		return d
	}
	return base
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(value); err == nil {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
