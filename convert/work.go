package convert

import (
	"github.com/miku/orcidkit/dateutil"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/miku/orcidkit/tree"
)

// firstSummary returns the first summary of a group, if that is a mapping.
// The registry lists the preferred source first.
func firstSummary(group any, key string) (map[string]any, bool) {
	summaries, ok := tree.Get(group, nil, key).([]any)
	if !ok || len(summaries) == 0 {
		return nil, false
	}
	m, ok := summaries[0].(map[string]any)
	return m, ok
}

// Works converts work groups, using the first summary of each group only.
// Groups without summaries are skipped.
func Works(groups []any) []researcher.Work {
	result := []researcher.Work{}
	for _, group := range groups {
		w, ok := firstSummary(group, "work-summary")
		if !ok {
			continue
		}
		result = append(result, researcher.Work{
			Title:           tree.String(w, "title", "title", "value"),
			Type:            tree.String(w, "type"),
			Journal:         tree.String(w, "journal-title", "value"),
			Citation:        tree.String(w, "citation", "citation-value"),
			PublicationDate: dateutil.PartialDate(tree.Get(w, nil, "publication-date")),
			URL:             tree.String(w, "url", "value"),
			Language:        tree.String(w, "language-code"),
			ExternalIDs:     ExternalIDs(tree.List(w, "external-ids", "external-id")),
			Contributors:    Contributors(tree.List(w, "contributors", "contributor")),
		})
	}
	return result
}

// Contributors converts a contributor list. The role is read from the
// contributor attributes, falling back to a top-level role field.
func Contributors(entries []any) []researcher.Contributor {
	result := []researcher.Contributor{}
	eachMapping(entries, func(m map[string]any) {
		role := tree.String(m, "contributor-attributes", "contributor-role")
		if role == nil {
			role = tree.String(m, "contributor-role")
		}
		result = append(result, researcher.Contributor{
			Name:  tree.String(m, "credit-name", "value"),
			Role:  role,
			ORCID: tree.String(m, "contributor-orcid", "path"),
		})
	})
	return result
}
