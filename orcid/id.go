// Package orcid validates ORCID identifiers and talks to the public registry
// API, cf. https://info.orcid.org/documentation/api-tutorials/.
package orcid

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned for identifiers not of the form
	// 0000-0000-0000-000X.
	ErrInvalidIdentifier = errors.New("invalid orcid identifier")

	identifierPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
)

// Valid reports whether s has the shape of an identifier: four dash separated
// groups of four digits, the very last character may be X. The check digit
// itself is not verified, see ValidChecksum for that.
func Valid(s string) bool {
	return identifierPattern.MatchString(s)
}

// Clean removes URL prefixes and surrounding whitespace and upper-cases a
// trailing x. The result is not validated.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{
		"https://orcid.org/",
		"http://orcid.org/",
		"https://sandbox.orcid.org/",
		"orcid.org/",
	} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(s, "/")
	if strings.HasSuffix(s, "x") {
		s = s[:len(s)-1] + "X"
	}
	return s
}

// Checksum computes the ISO 7064 MOD 11-2 check character over the first 15
// digits of an identifier. Dashes are ignored.
func Checksum(s string) (byte, error) {
	var total, n int
	for i := 0; i < len(s) && n < 15; i++ {
		c := s[i]
		if c == '-' {
			continue
		}
		if c < '0' || c > '9' {
			return 0, ErrInvalidIdentifier
		}
		total = (total + int(c-'0')) * 2
		n++
	}
	if n < 15 {
		return 0, ErrInvalidIdentifier
	}
	result := (12 - total%11) % 11
	if result == 10 {
		return 'X', nil
	}
	return byte('0' + result), nil
}

// ValidChecksum reports whether s has the right shape and a matching check
// character.
func ValidChecksum(s string) bool {
	if !Valid(s) {
		return false
	}
	c, err := Checksum(s)
	if err != nil {
		return false
	}
	return s[len(s)-1] == c
}
