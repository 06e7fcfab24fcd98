// Package convert reshapes a decoded registry record into a researcher
// profile. All functions are pure and tolerate any shape of input: missing
// or mistyped branches degrade to the documented default of a field.
package convert

import (
	"errors"

	"github.com/miku/orcidkit/dateutil"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/miku/orcidkit/tree"
)

var ErrEmptyDoc = errors.New("empty doc")

// RecordToProfile converts a full registry record, as decoded from JSON, into
// a profile for the identifier id. The raw data field is left empty. The
// record must be a JSON object.
func RecordToProfile(doc any, id string) (*researcher.Profile, error) {
	if tree.KindOf(doc) != tree.Mapping {
		return nil, ErrEmptyDoc
	}
	works := Works(tree.List(doc, "activities-summary", "works", "group"))
	return &researcher.Profile{
		ORCID:            id,
		Personal:         Personal(doc, id),
		Employment:       Affiliations(AffiliationSummaries(doc, "employments", "employment-summary")),
		Education:        Affiliations(AffiliationSummaries(doc, "educations", "education-summary")),
		Works:            works,
		Funding:          Fundings(tree.List(doc, "activities-summary", "fundings", "group")),
		Metrics:          Metrics(doc),
		LastModified:     dateutil.Timestamp(tree.Get(doc, nil, "history", "last-modified-date", "value")),
		WorksFingerprint: WorksFingerprint(works),
	}, nil
}

// eachMapping calls f for every element of vs that is a mapping.
func eachMapping(vs []any, f func(m map[string]any)) {
	for _, v := range vs {
		if m, ok := v.(map[string]any); ok {
			f(m)
		}
	}
}

// texts collects the text at path for every mapping in vs; non-mappings are
// skipped, mappings without a value contribute nil.
func texts(vs []any, path ...any) []*string {
	result := []*string{}
	eachMapping(vs, func(m map[string]any) {
		result = append(result, tree.String(m, path...))
	})
	return result
}
