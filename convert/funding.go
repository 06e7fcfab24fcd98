package convert

import (
	"github.com/miku/orcidkit/dateutil"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/miku/orcidkit/tree"
)

// Fundings converts funding groups, first summary per group, like Works.
func Fundings(groups []any) []researcher.Funding {
	result := []researcher.Funding{}
	for _, group := range groups {
		f, ok := firstSummary(group, "funding-summary")
		if !ok {
			continue
		}
		result = append(result, researcher.Funding{
			Title: tree.String(f, "title", "title", "value"),
			Type:  tree.String(f, "type"),
			Amount: researcher.Amount{
				Value:    tree.String(f, "amount", "value"),
				Currency: tree.String(f, "amount", "currency-code"),
			},
			Agency: tree.String(f, "organization", "name"),
			Dates: researcher.DateRange{
				Start: dateutil.PartialDate(tree.Get(f, nil, "start-date")),
				End:   dateutil.PartialDate(tree.Get(f, nil, "end-date")),
			},
		})
	}
	return result
}
