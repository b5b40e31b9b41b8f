package domain

import (
	"regexp"
	"strings"
)

var addressRegexp = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress returns whether the given string is a 0x prefixed 20-byte
// hex encoded account or contract address.
func IsValidAddress(addr string) bool {
	return addressRegexp.MatchString(addr)
}

// NormalizeAddress returns the canonical lowercase form of an address.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// SameAddress compares two addresses ignoring the checksum casing.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}
