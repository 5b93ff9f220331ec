package ignorelist

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/utils"
)

// Checker tells whether a sender belongs to a domain left out of detection
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new ignore list checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		if d := strings.ToLower(strings.TrimSpace(domain)); d != "" {
			normalizedDomains = append(normalizedDomains, d)
		}
	}

	if len(normalizedDomains) > 0 && logger != nil {
		logger.Info("Initialized ignore list", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// IsIgnored reports whether the sender's domain, or a parent of it, is on the list
func (c *Checker) IsIgnored(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := utils.DomainOf(from)
	if domain == "" {
		return false
	}

	for _, ignored := range c.domains {
		if domain == ignored || strings.HasSuffix(domain, "."+ignored) {
			if c.logger != nil {
				c.logger.Debug("Sender domain is ignored",
					zap.String("domain", domain),
					zap.String("from", from))
			}
			return true
		}
	}

	return false
}

// Domains returns the normalized ignore list
func (c *Checker) Domains() []string {
	return append([]string(nil), c.domains...)
}

// Fingerprint identifies the ignore list regardless of entry order
func (c *Checker) Fingerprint() string {
	domains := c.Domains()
	sort.Strings(domains)
	return strings.Join(domains, ",")
}
