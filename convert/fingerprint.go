package convert

import (
	"crypto/sha256"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/miku/orcidkit/normal"
	"github.com/miku/orcidkit/schema/researcher"
)

var doiRegex = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// WorkKey identifies a work across fetches: its cleaned DOI, or else its
// normalized title. Empty if the work has neither.
func WorkKey(w researcher.Work) string {
	if v := w.ExternalIDs["doi"]; v != nil {
		if doi := cleanDOI(*v); doi != "" {
			return doi
		}
	}
	if w.Title != nil {
		return normal.TitleKey.Normalize(*w.Title)
	}
	return ""
}

// WorksFingerprint hashes the sorted keys of all works. It changes when a work
// is added or removed, but not when the registry reorders works.
func WorksFingerprint(works []researcher.Work) string {
	var keys []string
	for _, w := range works {
		if k := WorkKey(w); k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	h := sha256.New()
	_, _ = io.WriteString(h, strings.Join(keys, "|"))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewWorks returns the works in fresh whose key does not appear in old. Works
// without a key are never reported.
func NewWorks(old, fresh []researcher.Work) []researcher.Work {
	seen := make(map[string]bool)
	for _, w := range old {
		seen[WorkKey(w)] = true
	}
	result := []researcher.Work{}
	for _, w := range fresh {
		k := WorkKey(w)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, w)
	}
	return result
}

// cleanDOI lowercases a DOI and strips resolver prefixes. Returns the empty
// string for anything that does not look like a plain ASCII DOI.
func cleanDOI(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || strings.Contains(raw, " ") || strings.Contains(raw, "–") {
		return ""
	}
	for _, prefix := range []string{"doi:", "http://", "https://", "dx.doi.org/", "doi.org/"} {
		raw = strings.TrimPrefix(raw, prefix)
	}
	if len(raw) > 9 && raw[7:9] == "//" && strings.Contains(raw, "10.1037//") {
		raw = raw[:8] + raw[9:]
	}
	if strings.ContainsAny(raw, "Â¬") {
		return ""
	}
	if !doiRegex.MatchString(raw) || !isASCII(raw) {
		return ""
	}
	return raw
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
