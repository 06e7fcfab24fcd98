// Package normal provides composable string normalizers, used to derive
// comparison keys for works that carry no DOI.
package normal

import (
	"strings"
	"unicode"
)

// Pipeline applies normalizers in order.
type Pipeline struct {
	Normalizer []Normalizer
}

func (p *Pipeline) Normalize(s string) string {
	for _, n := range p.Normalizer {
		s = n.Normalize(s)
	}
	return s
}

type Normalizer interface {
	Normalize(string) string
}

// SimpleNormalizer lowercases.
type SimpleNormalizer struct{}

func (s *SimpleNormalizer) Normalize(v string) string {
	return strings.ToLower(v)
}

// CollapseWSNormalizer replaces runs of whitespace with a single space and
// trims both ends.
type CollapseWSNormalizer struct{}

func (s *CollapseWSNormalizer) Normalize(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// LettersOnlyNormalizer keeps letters and digits, whitespace becomes a space.
type LettersOnlyNormalizer struct{}

func (s *LettersOnlyNormalizer) Normalize(v string) string {
	var b strings.Builder
	for _, c := range v {
		if unicode.IsSpace(c) {
			b.WriteRune(' ')
			continue
		}
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// TitleKey turns a title into a key that ignores case, punctuation and
// spacing differences between sources.
var TitleKey = &Pipeline{Normalizer: []Normalizer{
	&SimpleNormalizer{},
	&LettersOnlyNormalizer{},
	&CollapseWSNormalizer{},
}}

// ReplaceNewlineAndTab replaces newlines and tabs with spaces, so a value fits
// on a single line.
func ReplaceNewlineAndTab(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if c == '\n' || c == '\t' {
			sb.WriteString(" ")
		} else {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
