package utils

import (
	"regexp"
	"strings"
)

var (
	// addressRun matches a maximal run of characters that may appear in an address
	addressRun = regexp.MustCompile(`[\p{L}\p{N}_.@-]+`)
	// addressShape matches a run holding exactly one '@' with text on both sides
	addressShape = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+$`)
)

// CanonicalEmail lower-cases and trims a raw From value and extracts the bare
// address from forms like "Name <user@example.com>". Values without an
// address are returned trimmed and lower-cased.
func CanonicalEmail(raw string) string {
	if raw == "" {
		return ""
	}

	addr := strings.ToLower(strings.TrimSpace(raw))
	for _, run := range addressRun.FindAllString(addr, -1) {
		if addressShape.MatchString(run) {
			return run
		}
	}

	return addr
}

// DomainOf returns the part after the single '@' of the canonical address, or
// an empty string when the address has no '@' or more than one.
func DomainOf(raw string) string {
	parts := strings.Split(CanonicalEmail(raw), "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
