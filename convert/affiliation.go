package convert

import (
	"github.com/miku/orcidkit/dateutil"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/miku/orcidkit/tree"
)

// AffiliationSummaries returns the affiliation summaries of a section, e.g.
// "employments" with key "employment-summary". A flat summary list is used
// if present; otherwise summaries are collected from the grouped layout,
// affiliation-group[].summaries[].<key>.
func AffiliationSummaries(doc any, section, key string) []any {
	if flat := tree.List(doc, "activities-summary", section, key); len(flat) > 0 {
		return flat
	}
	result := []any{}
	for _, group := range tree.List(doc, "activities-summary", section, "affiliation-group") {
		for _, summary := range tree.List(group, "summaries") {
			if v := tree.Get(summary, nil, key); v != nil {
				result = append(result, v)
			}
		}
	}
	return result
}

// Affiliations converts employment or education summaries. Entries that are
// not mappings are dropped.
func Affiliations(entries []any) []researcher.Affiliation {
	result := []researcher.Affiliation{}
	eachMapping(entries, func(m map[string]any) {
		result = append(result, researcher.Affiliation{
			Organization: tree.String(m, "organization", "name"),
			Department:   tree.String(m, "department-name"),
			Role:         tree.String(m, "role-title"),
			StartDate:    dateutil.PartialDate(tree.Get(m, nil, "start-date")),
			EndDate:      dateutil.PartialDate(tree.Get(m, nil, "end-date")),
			Location: researcher.Location{
				City:    tree.String(m, "organization", "address", "city"),
				Country: tree.String(m, "organization", "address", "country"),
			},
			URL: tree.String(m, "url", "value"),
		})
	})
	return result
}
