package convert

import (
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/miku/orcidkit/tree"
)

// Metrics reads the registry's own works total, which may exceed the number
// of works listed, and sums citation-count over all citation sources.
// Missing or malformed values count as zero.
func Metrics(doc any) researcher.Metrics {
	var citations int
	for _, source := range tree.Map(doc, "activities-summary", "works", "citation") {
		citations += nonNegative(tree.Int(source, 0, "citation-count"))
	}
	return researcher.Metrics{
		WorksCount:    nonNegative(tree.Int(doc, 0, "activities-summary", "works", "total")),
		CitationCount: citations,
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
